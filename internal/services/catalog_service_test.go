package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/repository"
)

func newTestCatalog(seed ...domain.Item) CatalogService {
	return NewCatalogService(repository.NewMemoryItemRepository(seed...), nil)
}

func TestCatalogService_List(t *testing.T) {
	t.Run("EmptyStore", func(t *testing.T) {
		items, err := newTestCatalog().List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("SeededStore", func(t *testing.T) {
		items, err := newTestCatalog(domain.SeedItems()...).List(context.Background())
		require.NoError(t, err)
		assert.Len(t, items, 5)
		assert.Equal(t, "Mechanical Keyboard", items[4].Name)
	})
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()

	created, err := catalog.Create(ctx, domain.CreateItemRequest{
		Name: "Mug", Description: "Ceramic", Price: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, domain.DefaultImageURI, created.Image)

	items, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created, items[0])

	second, err := catalog.Create(ctx, domain.CreateItemRequest{
		Name: "Plate", Description: "Flat", Price: 4.0, Image: "https://example.com/plate.png",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestCatalogService_CreateValidationLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(domain.SeedItems()...)

	_, err := catalog.Create(ctx, domain.CreateItemRequest{Name: "x", Description: "y", Price: 0.0})
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ValidationError))

	_, err = catalog.Create(ctx, domain.CreateItemRequest{Name: "", Description: "y", Price: 1.0})
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ValidationError))

	items, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestCatalogService_Get(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(domain.SeedItems()...)

	item, err := catalog.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Smart Watch", item.Name)

	_, err = catalog.Get(ctx, 999)
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.NotFoundError))
}

func TestCatalogService_GetByRawID(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(domain.SeedItems()...)

	tests := []struct {
		name      string
		id        string
		errorType domain.ErrorType
	}{
		{name: "valid", id: "3"},
		{name: "unknown", id: "999", errorType: domain.NotFoundError},
		{name: "zero", id: "0", errorType: domain.NotFoundError},
		{name: "word", id: "abc", errorType: domain.InvalidArgumentError},
		{name: "decimal", id: "1.5", errorType: domain.InvalidArgumentError},
		{name: "trailing garbage", id: "1abc", errorType: domain.InvalidArgumentError},
		{name: "empty", id: "", errorType: domain.InvalidArgumentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := catalog.GetByRawID(ctx, tt.id)
			if tt.errorType == "" {
				require.NoError(t, err)
				assert.Equal(t, 3, item.ID)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsType(err, tt.errorType), "got %v", err)
		})
	}
}

func TestCatalogService_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(domain.SeedItems()...)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := make(map[int]struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := catalog.Create(ctx, domain.CreateItemRequest{Name: "n", Description: "d", Price: 1.0})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[item.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, workers)
	items, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5+workers)
}
