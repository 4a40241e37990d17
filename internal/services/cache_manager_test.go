package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// countingCatalog is a CatalogClient that records how often it is called.
type countingCatalog struct {
	items     []domain.Item
	listCalls int
	getCalls  int
	createErr error
}

func (f *countingCatalog) ListItems(context.Context) ([]domain.Item, error) {
	f.listCalls++
	return append([]domain.Item(nil), f.items...), nil
}

func (f *countingCatalog) GetItem(_ context.Context, id string) (domain.Item, error) {
	f.getCalls++
	for _, item := range f.items {
		if id == strconv.Itoa(item.ID) {
			return item, nil
		}
	}
	return domain.Item{}, domain.NewNotFoundError("ITEM_NOT_FOUND", domain.MessageItemNotFound)
}

func (f *countingCatalog) CreateItem(_ context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	if f.createErr != nil {
		return domain.Item{}, f.createErr
	}
	item, err := req.Normalize()
	if err != nil {
		return domain.Item{}, err
	}
	item.ID = len(f.items) + 1
	f.items = append(f.items, item)
	return item, nil
}

func (f *countingCatalog) Health(context.Context) (client.HealthStatus, error) {
	return client.HealthStatus{Success: true, Message: "Server is running"}, nil
}

func quietCacheLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedCatalogClient_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{items: domain.SeedItems()}
	cached := NewCachedCatalogClient(inner, NewMemoryCacheBackend("test:"), CacheConfig{
		ListTTL: time.Minute,
		Logger:  quietCacheLogger(),
	})

	first, err := cached.ListItems(ctx)
	require.NoError(t, err)
	second, err := cached.ListItems(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.listCalls)

	item, err := cached.GetItem(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Smart Watch", item.Name)
	_, err = cached.GetItem(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.getCalls)

	stats, err := cached.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.0001)
	assert.Equal(t, int64(2), stats.Backend.Keys)
}

func TestCachedCatalogClient_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{}
	cached := NewCachedCatalogClient(inner, NewMemoryCacheBackend(""), CacheConfig{
		ListTTL: time.Minute,
		Logger:  quietCacheLogger(),
	})

	for i := 0; i < 2; i++ {
		_, err := cached.GetItem(ctx, "99")
		assert.True(t, domain.IsType(err, domain.NotFoundError))
	}
	assert.Equal(t, 2, inner.getCalls)
}

func TestCachedCatalogClient_CreateInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{items: domain.SeedItems()}
	cached := NewCachedCatalogClient(inner, NewMemoryCacheBackend(""), CacheConfig{
		ListTTL: time.Hour,
		Logger:  quietCacheLogger(),
	})

	items, err := cached.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)

	created, err := cached.CreateItem(ctx, domain.CreateItemRequest{Name: "Lamp", Description: "Desk lamp", Price: 24.5})
	require.NoError(t, err)
	assert.Equal(t, 6, created.ID)

	items, err = cached.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 6, "a created item must be visible immediately")
	assert.Equal(t, 2, inner.listCalls)
}

func TestCachedCatalogClient_FailedCreateKeepsCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingCatalog{items: domain.SeedItems(), createErr: errors.New("boom")}
	cached := NewCachedCatalogClient(inner, NewMemoryCacheBackend(""), CacheConfig{
		ListTTL: time.Hour,
		Logger:  quietCacheLogger(),
	})

	_, err := cached.ListItems(ctx)
	require.NoError(t, err)
	_, err = cached.CreateItem(ctx, domain.CreateItemRequest{Name: "Lamp", Description: "Desk lamp", Price: 24.5})
	require.Error(t, err)

	_, err = cached.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedCatalogClient_ItemKeysDoNotShareListKey(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryCacheBackend("test:")
	inner := &countingCatalog{items: domain.SeedItems()}
	cached := NewCachedCatalogClient(inner, backend, CacheConfig{
		ListTTL: time.Minute,
		Logger:  quietCacheLogger(),
	})

	_, err := cached.ListItems(ctx)
	require.NoError(t, err)

	_, err = cached.GetItem(ctx, "list")
	assert.True(t, domain.IsType(err, domain.NotFoundError))
	assert.Equal(t, 1, inner.getCalls)
	assert.True(t, backend.Exists(ctx, ItemListCacheKey))

	items, err := cached.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedCatalogClient_UnavailableRedisFallsThrough(t *testing.T) {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = rdb.Close() }()

	inner := &countingCatalog{items: domain.SeedItems()}
	cached := NewCachedCatalogClient(inner, NewRedisCacheBackend(rdb, "catalog:"), CacheConfig{
		ListTTL: time.Minute,
		Logger:  quietCacheLogger(),
	})

	for i := 0; i < 2; i++ {
		items, err := cached.ListItems(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 5)
	}
	assert.Equal(t, 2, inner.listCalls)

	_, err := cached.CreateItem(ctx, domain.CreateItemRequest{Name: "Lamp", Description: "Desk lamp", Price: 24.5})
	assert.NoError(t, err, "invalidation failures must not fail the write")

	stats, err := cached.Stats(ctx)
	assert.Error(t, err)
	require.NotNil(t, stats.Backend)
	assert.False(t, stats.Backend.Connected)
}

func TestMemoryCacheBackend_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	backend := NewMemoryCacheBackend("p:")
	backend.now = func() time.Time { return now }

	require.NoError(t, backend.Set(ctx, "a", []byte("1"), time.Second))
	assert.True(t, backend.Exists(ctx, "a"))

	now = now.Add(time.Second)
	_, err := backend.Get(ctx, "a")
	assert.True(t, domain.IsType(err, domain.NotFoundError))
	assert.False(t, backend.Exists(ctx, "a"))
}

func TestMemoryCacheBackend_DeletePatternAndFlush(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryCacheBackend("p:")

	require.NoError(t, backend.Set(ctx, "items:list", []byte("[]"), time.Minute))
	require.NoError(t, backend.Set(ctx, ItemCachePrefix+"1", []byte("{}"), time.Minute))
	require.NoError(t, backend.Set(ctx, "other", []byte("x"), time.Minute))

	require.NoError(t, backend.DeletePattern(ctx, ItemPattern))
	assert.False(t, backend.Exists(ctx, "items:list"))
	assert.False(t, backend.Exists(ctx, ItemCachePrefix+"1"))
	assert.True(t, backend.Exists(ctx, "other"))

	stats, err := backend.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Keys)

	require.NoError(t, backend.Flush(ctx))
	assert.False(t, backend.Exists(ctx, "other"))
}
