package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

func TestCreateItemRequest_Normalize(t *testing.T) {
	item, err := domain.CreateItemRequest{
		Name:        "  Mug ",
		Description: " Ceramic\t",
		Price:       12.5,
	}.Normalize()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if item.Name != "Mug" {
		t.Errorf("Expected trimmed name Mug, got %q", item.Name)
	}
	if item.Description != "Ceramic" {
		t.Errorf("Expected trimmed description Ceramic, got %q", item.Description)
	}
	if item.Price != 12.5 {
		t.Errorf("Expected price 12.5, got %f", item.Price)
	}
	if item.Image != domain.DefaultImageURI {
		t.Errorf("Expected default image, got %q", item.Image)
	}
	if item.ID != 0 {
		t.Errorf("Expected id to be left for the store, got %d", item.ID)
	}
}

func TestCreateItemRequest_NormalizeKeepsImage(t *testing.T) {
	item, err := domain.CreateItemRequest{
		Name: "Mug", Description: "Ceramic", Price: 3, Image: "https://example.com/mug.png",
	}.Normalize()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if item.Image != "https://example.com/mug.png" {
		t.Errorf("Expected supplied image, got %q", item.Image)
	}
}

func TestCreateItemRequest_NormalizeRejects(t *testing.T) {
	tests := []struct {
		name      string
		request   domain.CreateItemRequest
		errorCode string
		message   string
	}{
		{
			name:      "empty name",
			request:   domain.CreateItemRequest{Name: "", Description: "d", Price: 1.0},
			errorCode: "MISSING_REQUIRED_FIELDS", message: domain.MessageRequiredFields,
		},
		{
			name:      "whitespace name",
			request:   domain.CreateItemRequest{Name: "   ", Description: "d", Price: 1.0},
			errorCode: "MISSING_REQUIRED_FIELDS", message: domain.MessageRequiredFields,
		},
		{
			name:      "empty description",
			request:   domain.CreateItemRequest{Name: "n", Description: "", Price: 1.0},
			errorCode: "MISSING_REQUIRED_FIELDS", message: domain.MessageRequiredFields,
		},
		{
			name:      "missing price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d"},
			errorCode: "MISSING_REQUIRED_FIELDS", message: domain.MessageRequiredFields,
		},
		{
			name:      "null raw price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: json.RawMessage("null")},
			errorCode: "MISSING_REQUIRED_FIELDS", message: domain.MessageRequiredFields,
		},
		{
			name:      "zero price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: 0.0},
			errorCode: "INVALID_PRICE", message: domain.MessagePositivePrice,
		},
		{
			name:      "negative price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: -5.0},
			errorCode: "INVALID_PRICE", message: domain.MessagePositivePrice,
		},
		{
			name:      "string price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: "abc"},
			errorCode: "INVALID_PRICE", message: domain.MessagePositivePrice,
		},
		{
			name:      "numeric string price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: "12"},
			errorCode: "INVALID_PRICE", message: domain.MessagePositivePrice,
		},
		{
			name:      "NaN price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: math.NaN()},
			errorCode: "INVALID_PRICE", message: domain.MessagePositivePrice,
		},
		{
			name:      "boolean price",
			request:   domain.CreateItemRequest{Name: "n", Description: "d", Price: true},
			errorCode: "INVALID_PRICE", message: domain.MessagePositivePrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.request.Normalize()
			if err == nil {
				t.Fatal("Expected validation error but got nil")
			}

			domainErr, ok := domain.AsError(err)
			if !ok {
				t.Fatalf("Expected domain.Error, got %T", err)
			}
			if domainErr.Type != domain.ValidationError {
				t.Errorf("Expected type %s, got %s", domain.ValidationError, domainErr.Type)
			}
			if domainErr.Code != tt.errorCode {
				t.Errorf("Expected error code %s, got %s", tt.errorCode, domainErr.Code)
			}
			if domainErr.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, domainErr.Message)
			}
		})
	}
}

func TestCreateItemRequest_NumericForms(t *testing.T) {
	prices := []interface{}{
		7, int64(7), float32(7), json.Number("7"), json.RawMessage("7"),
	}

	for _, price := range prices {
		item, err := domain.CreateItemRequest{Name: "n", Description: "d", Price: price}.Normalize()
		if err != nil {
			t.Errorf("Expected %T price to be accepted, got: %v", price, err)
			continue
		}
		if item.Price != 7 {
			t.Errorf("Expected price 7 from %T, got %f", price, item.Price)
		}
	}
}

func TestParsePriceInput(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{raw: "24.50", expected: 24.5, ok: true},
		{raw: " 3 ", expected: 3, ok: true},
		{raw: "1e2", expected: 100, ok: true},
		{raw: "", ok: false},
		{raw: "abc", ok: false},
		{raw: "0", ok: false},
		{raw: "-3", ok: false},
		{raw: "NaN", ok: false},
		{raw: "Inf", ok: false},
		{raw: "+Infinity", ok: false},
		{raw: "-inf", ok: false},
	}

	for _, tt := range tests {
		price, ok := domain.ParsePriceInput(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParsePriceInput(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && price != tt.expected {
			t.Errorf("ParsePriceInput(%q) = %f, want %f", tt.raw, price, tt.expected)
		}
	}
}

func TestSeedItems(t *testing.T) {
	items := domain.SeedItems()

	if len(items) != 5 {
		t.Fatalf("Expected 5 seed items, got %d", len(items))
	}
	for i, item := range items {
		if item.ID != i+1 {
			t.Errorf("Expected id %d, got %d", i+1, item.ID)
		}
		if item.Price <= 0 {
			t.Errorf("Expected positive price for %s", item.Name)
		}
	}
	if items[0].Name != "Wireless Headphones" || items[0].Price != 299.99 {
		t.Errorf("Unexpected first seed item: %+v", items[0])
	}
}
