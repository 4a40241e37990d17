package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/repository"
)

// CatalogService defines the interface for catalog operations.
// Following Interface Segregation Principle.
type CatalogService interface {
	// List returns every item in insertion order.
	List(ctx context.Context) ([]domain.Item, error)

	// Get returns the item with the given id.
	Get(ctx context.Context, id int) (domain.Item, error)

	// GetByRawID parses id before looking it up. Non-integer ids are an
	// InvalidArgument error rather than NotFound.
	GetByRawID(ctx context.Context, id string) (domain.Item, error)

	// Create validates the request and stores a new item.
	Create(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error)
}

// catalogService implements CatalogService interface.
type catalogService struct {
	itemRepo repository.ItemRepository
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(itemRepo repository.ItemRepository, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// List returns every item in insertion order.
func (s *catalogService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("ITEM_LIST_FAILED", "Failed to fetch items", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// Get returns the item with the given id.
func (s *catalogService) Get(ctx context.Context, id int) (domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.Item{}, domain.NewNotFoundError("ITEM_NOT_FOUND", domain.MessageItemNotFound)
		}
		return domain.Item{}, domain.NewInternalError("ITEM_FETCH_FAILED", "Failed to fetch item", err)
	}
	return item, nil
}

// GetByRawID parses id strictly as a base-10 integer before looking it up.
func (s *catalogService) GetByRawID(ctx context.Context, id string) (domain.Item, error) {
	parsed, err := strconv.Atoi(id)
	if err != nil {
		return domain.Item{}, domain.NewInvalidArgumentError("INVALID_ITEM_ID", "Item id must be an integer", map[string]interface{}{
			"id": id,
		})
	}
	return s.Get(ctx, parsed)
}

// Create validates the request and stores a new item.
func (s *catalogService) Create(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	item, err := req.Normalize()
	if err != nil {
		return domain.Item{}, err
	}

	created, err := s.itemRepo.Create(ctx, item)
	if err != nil {
		return domain.Item{}, domain.NewInternalError("ITEM_CREATE_FAILED", "Failed to create item", err)
	}

	s.logger.Info("Item created", "item_id", created.ID, "name", created.Name)
	return created, nil
}
