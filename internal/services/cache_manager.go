package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// CacheBackend defines the interface for cache storage backends
type CacheBackend interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) bool
	Flush(ctx context.Context) error
	Stats(ctx context.Context) (*BackendStats, error)
}

// CacheStats provides cache performance metrics
type CacheStats struct {
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
	HitRatio float64       `json:"hit_ratio"`
	Backend  *BackendStats `json:"backend,omitempty"`
}

// BackendStats provides backend-specific statistics
type BackendStats struct {
	Connected bool                   `json:"connected"`
	Keys      int64                  `json:"keys"`
	Memory    int64                  `json:"memory_bytes"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	ListTTL time.Duration // Lifetime of the cached item list
	ItemTTL time.Duration // Lifetime of a cached single item (default: ListTTL)
	Logger  *slog.Logger  // Logger instance
}

// Cache key constants and patterns
const (
	ItemListCacheKey = "items:list"
	ItemCachePrefix  = "items:id:"
	ItemPattern      = "items:*"
)

// CachedCatalogClient is a read-through cache in front of a CatalogClient.
// Creating an item drops every cached read. Backend failures fall through
// to the wrapped client.
type CachedCatalogClient struct {
	inner   client.CatalogClient
	backend CacheBackend
	config  CacheConfig
	logger  *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

var _ client.CatalogClient = (*CachedCatalogClient)(nil)

// NewCachedCatalogClient wraps inner with a cache stored in backend.
func NewCachedCatalogClient(inner client.CatalogClient, backend CacheBackend, config CacheConfig) *CachedCatalogClient {
	if config.ItemTTL <= 0 {
		config.ItemTTL = config.ListTTL
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &CachedCatalogClient{
		inner:   inner,
		backend: backend,
		config:  config,
		logger:  config.Logger,
	}
}

// ListItems returns the cached list or fetches and caches it.
func (c *CachedCatalogClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if c.load(ctx, ItemListCacheKey, &items) {
		return items, nil
	}

	items, err := c.inner.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, ItemListCacheKey, items, c.config.ListTTL)
	return items, nil
}

// GetItem returns the cached item or fetches and caches it. Failures are not cached.
func (c *CachedCatalogClient) GetItem(ctx context.Context, id string) (domain.Item, error) {
	key := ItemCachePrefix + id

	var item domain.Item
	if c.load(ctx, key, &item) {
		return item, nil
	}

	item, err := c.inner.GetItem(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	c.store(ctx, key, item, c.config.ItemTTL)
	return item, nil
}

// CreateItem forwards the write and invalidates cached reads on success.
func (c *CachedCatalogClient) CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	item, err := c.inner.CreateItem(ctx, req)
	if err != nil {
		return domain.Item{}, err
	}

	if err := c.backend.DeletePattern(ctx, ItemPattern); err != nil {
		c.logger.Warn("Failed to invalidate catalog cache", "error", err)
	}
	return item, nil
}

// Health is never cached.
func (c *CachedCatalogClient) Health(ctx context.Context) (client.HealthStatus, error) {
	return c.inner.Health(ctx)
}

// Stats reports hit and miss counters along with backend statistics.
func (c *CachedCatalogClient) Stats(ctx context.Context) (*CacheStats, error) {
	hits := c.hits.Load()
	misses := c.misses.Load()

	stats := &CacheStats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRatio = float64(hits) / float64(total)
	}

	backendStats, err := c.backend.Stats(ctx)
	stats.Backend = backendStats
	return stats, err
}

func (c *CachedCatalogClient) load(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		if !domain.IsType(err, domain.NotFoundError) {
			c.logger.Warn("Catalog cache read failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		_ = c.backend.Delete(ctx, key)
		c.misses.Add(1)
		return false
	}

	c.hits.Add(1)
	return true
}

func (c *CachedCatalogClient) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.backend.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("Catalog cache write failed", "key", key, "error", err)
	}
}
