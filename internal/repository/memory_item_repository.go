package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// memoryItemRepository provides an in-memory implementation of ItemRepository.
type memoryItemRepository struct {
	items []domain.Item
	mutex sync.RWMutex
}

// NewMemoryItemRepository creates a new in-memory item repository holding seed.
// Seed items keep their ids; later creates continue from the highest one.
func NewMemoryItemRepository(seed ...domain.Item) ItemRepository {
	items := make([]domain.Item, len(seed))
	copy(items, seed)
	return &memoryItemRepository{
		items: items,
	}
}

// List retrieves all items in insertion order
func (r *memoryItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items := make([]domain.Item, len(r.items))
	copy(items, r.items)
	return items, nil
}

// GetByID retrieves an item by ID
func (r *memoryItemRepository) GetByID(ctx context.Context, id int) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
}

// Create assigns max(id)+1 and appends the item.
// The id is computed under the write lock so concurrent creates never collide.
func (r *memoryItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	item.ID = r.nextID()
	r.items = append(r.items, item)
	return item, nil
}

// Count returns the total number of items
func (r *memoryItemRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.items), nil
}

// nextID must be called with the write lock held.
func (r *memoryItemRepository) nextID() int {
	maxID := 0
	for _, item := range r.items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID + 1
}
