package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultImageURI is stored when an item is created without an image.
const DefaultImageURI = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=300&fit=crop"

// Validation messages returned to API callers.
const (
	MessageRequiredFields = "Name, description, and price are required"
	MessagePositivePrice  = "Price must be a positive number"
	MessageItemNotFound   = "Item not found"
)

// Item represents one catalog entry.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// CreateItemRequest represents the data needed to create a new item.
//
// Price is left untyped so that non-numeric input can be reported as a
// validation failure instead of a decoding failure.
type CreateItemRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       interface{} `json:"price"`
	Image       string      `json:"image,omitempty"`
}

// Normalize validates the request and returns the item to store, without an id.
func (r CreateItemRequest) Normalize() (Item, error) {
	name := strings.TrimSpace(r.Name)
	description := strings.TrimSpace(r.Description)

	if name == "" || description == "" || priceAbsent(r.Price) {
		return Item{}, NewValidationError("MISSING_REQUIRED_FIELDS", MessageRequiredFields, map[string]interface{}{
			"field": missingField(name, description),
		})
	}

	price, ok := positivePrice(r.Price)
	if !ok {
		return Item{}, NewValidationError("INVALID_PRICE", MessagePositivePrice, map[string]interface{}{
			"field": "price",
		})
	}

	image := strings.TrimSpace(r.Image)
	if image == "" {
		image = DefaultImageURI
	}

	return Item{
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
	}, nil
}

func missingField(name, description string) string {
	switch {
	case name == "":
		return "name"
	case description == "":
		return "description"
	default:
		return "price"
	}
}

func priceAbsent(price interface{}) bool {
	switch v := price.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case json.RawMessage:
		trimmed := strings.TrimSpace(string(v))
		return trimmed == "" || trimmed == "null" || trimmed == `""`
	}
	return false
}

// ParsePriceInput parses a typed price such as a form field or CLI flag.
// It reports false unless the text is a finite number greater than zero.
func ParsePriceInput(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}
	return value, true
}

// positivePrice accepts only numeric values strictly greater than zero.
// Numeric strings are rejected, matching the JSON contract of POST /items.
func positivePrice(price interface{}) (float64, bool) {
	var value float64
	switch v := price.(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		value = f
	case json.RawMessage:
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return 0, false
		}
		value = f
	default:
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}
	return value, true
}

// SeedItems returns the catalog the API starts with.
func SeedItems() []Item {
	return []Item{
		{
			ID:          1,
			Name:        "Wireless Headphones",
			Description: "Premium quality sound with noise cancellation technology. Perfect for music lovers and professionals.",
			Price:       299.99,
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=300&fit=crop",
		},
		{
			ID:          2,
			Name:        "Smart Watch",
			Description: "Track your fitness and stay connected with this advanced smartwatch. Features heart rate monitoring and GPS.",
			Price:       399.99,
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=300&fit=crop",
		},
		{
			ID:          3,
			Name:        "Laptop Stand",
			Description: "Ergonomic aluminum stand for better posture and productivity. Adjustable height and angle.",
			Price:       79.99,
			Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400&h=300&fit=crop",
		},
		{
			ID:          4,
			Name:        "Bluetooth Speaker",
			Description: "Portable wireless speaker with 360-degree sound. Waterproof design perfect for outdoor activities.",
			Price:       149.99,
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=400&h=300&fit=crop",
		},
		{
			ID:          5,
			Name:        "Mechanical Keyboard",
			Description: "Professional mechanical keyboard with RGB backlighting. Cherry MX switches for optimal typing experience.",
			Price:       189.99,
			Image:       "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=400&h=300&fit=crop",
		},
	}
}
