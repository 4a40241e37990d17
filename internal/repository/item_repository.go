package repository

//nolint:gofumpt
import (
	"context"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// ItemRepository defines the interface for catalog item data operations.
// Items are never updated or deleted.
type ItemRepository interface {
	ItemQueryRepository

	// Create assigns the next id to item, stores it and returns the stored copy.
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
}

// ItemQueryRepository defines read-only operations for item queries.
// Following Interface Segregation Principle.
type ItemQueryRepository interface {
	// List retrieves all items in insertion order.
	List(ctx context.Context) ([]domain.Item, error)

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, id int) (domain.Item, error)

	// Count returns the total number of items.
	Count(ctx context.Context) (int, error)
}
