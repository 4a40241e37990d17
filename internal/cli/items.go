package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsShowCmd)
	itemsCmd.AddCommand(itemsAddCmd)

	// Add command flags
	itemsAddCmd.Flags().StringP("name", "n", "", "Item name")
	itemsAddCmd.Flags().StringP("description", "d", "", "Item description")
	itemsAddCmd.Flags().StringP("price", "p", "", "Item price")
	itemsAddCmd.Flags().StringP("image", "i", "", "Image URL (optional)")
	_ = itemsAddCmd.MarkFlagRequired("name")
	_ = itemsAddCmd.MarkFlagRequired("description")
	_ = itemsAddCmd.MarkFlagRequired("price")
}

var itemsCmd = &cobra.Command{
	Use:     "items",
	Short:   "Catalog item commands",
	Long:    `List, show and add catalog items.`,
	Aliases: []string{"item"},
}

var itemsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all items",
	Long:    `List every item in the catalog, ordered by id.`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ResolveProfile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		items, err := newCatalogClient(profile).ListItems(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		return RenderItems(cmd.OutOrStdout(), items, viper.GetString("output"))
	},
}

var itemsShowCmd = &cobra.Command{
	Use:     "show [id]",
	Short:   "Show item details",
	Long:    `Display a single catalog item.`,
	Aliases: []string{"get"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ResolveProfile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		item, err := newCatalogClient(profile).GetItem(cmd.Context(), args[0])
		if err != nil {
			if domain.IsType(err, domain.NotFoundError) {
				return fmt.Errorf("item '%s' not found", args[0])
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		return RenderItem(cmd.OutOrStdout(), item, viper.GetString("output"))
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new item",
	Long: `Add a new item to the catalog.

Requires a valid session; sign in first with 'catalogctl auth login'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ResolveProfile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := requireSession(profile); err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		rawPrice, _ := cmd.Flags().GetString("price")
		image, _ := cmd.Flags().GetString("image")

		req, err := buildCreateItemRequest(name, description, rawPrice, image)
		if err != nil {
			return err
		}

		item, err := newCatalogClient(profile).CreateItem(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}

		if strings.EqualFold(viper.GetString("output"), "table") {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Item %d created\n", item.ID)
		}
		return RenderItem(cmd.OutOrStdout(), item, viper.GetString("output"))
	},
}

// buildCreateItemRequest mirrors the web form checks before calling the API.
func buildCreateItemRequest(name, description, rawPrice, image string) (domain.CreateItemRequest, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" || strings.TrimSpace(rawPrice) == "" {
		return domain.CreateItemRequest{}, fmt.Errorf("name, description and price are required")
	}

	price, ok := domain.ParsePriceInput(rawPrice)
	if !ok {
		return domain.CreateItemRequest{}, fmt.Errorf("price must be a positive number")
	}

	return domain.CreateItemRequest{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Image:       strings.TrimSpace(image),
	}, nil
}
