package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatYML  = "yml"
	formatCSV  = "csv"
)

// maxDescriptionWidth truncates descriptions in table output.
const maxDescriptionWidth = 48

// RenderItems renders a list of items in the specified format
func RenderItems(w io.Writer, items []domain.Item, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(w, items)
	case formatYAML, formatYML:
		return renderYAML(w, items)
	case formatCSV:
		return renderItemsCSV(w, items)
	default:
		return renderItemsTable(w, items)
	}
}

// RenderItem renders a single item in the specified format
func RenderItem(w io.Writer, item domain.Item, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(w, item)
	case formatYAML, formatYML:
		return renderYAML(w, item)
	case formatCSV:
		return renderItemsCSV(w, []domain.Item{item})
	default:
		return renderItemDetails(w, item)
	}
}

// RenderHealth renders the API health status in the specified format
func RenderHealth(w io.Writer, status client.HealthStatus, format string) error {
	switch strings.ToLower(format) {
	case formatJSON:
		return renderJSON(w, status)
	case formatYAML, formatYML:
		return renderYAML(w, status)
	default:
		state := "✓ healthy"
		if !status.Success {
			state = "✗ unhealthy"
		}
		_, err := fmt.Fprintf(w, "Status: %s\nMessage: %s\nTimestamp: %s\n", state, status.Message, status.Timestamp)
		return err
	}
}

// formatPrice renders a price with two decimals.
func formatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', 2, 64)
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-3]) + "..."
}

// Table rendering functions
func renderItemsTable(w io.Writer, items []domain.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items found")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Description", "Price"})

	var total float64
	for _, item := range items {
		t.AppendRow(table.Row{
			item.ID,
			item.Name,
			truncate(item.Description, maxDescriptionWidth),
			formatPrice(item.Price),
		})
		total += item.Price
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d items", len(items)), "", formatPrice(total)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
	return nil
}

func renderItemDetails(w io.Writer, item domain.Item) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"ID", item.ID},
		{"Name", item.Name},
		{"Description", item.Description},
		{"Price", formatPrice(item.Price)},
		{"Image", item.Image},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

// JSON and YAML rendering functions
func renderJSON(w io.Writer, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func renderYAML(w io.Writer, value interface{}) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s", data)
	return err
}

// CSV rendering functions
func renderItemsCSV(w io.Writer, items []domain.Item) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "name", "description", "price", "image"}); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			strconv.Itoa(item.ID),
			item.Name,
			item.Description,
			strconv.FormatFloat(item.Price, 'f', -1, 64),
			item.Image,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
