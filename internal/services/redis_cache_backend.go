package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// scanBatchSize bounds how many keys one SCAN round trip returns.
const scanBatchSize = 100

// errCacheMiss is returned by backends when a key is absent or expired.
func errCacheMiss() error {
	return domain.NewNotFoundError("CACHE_MISS", "Cache miss")
}

// RedisCacheBackend implements CacheBackend using Redis.
type RedisCacheBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCacheBackend creates a Redis cache backend storing keys under prefix.
func NewRedisCacheBackend(client redis.UniversalClient, prefix string) *RedisCacheBackend {
	return &RedisCacheBackend{
		client: client,
		prefix: prefix,
	}
}

// Set stores a value in Redis with TTL
func (r *RedisCacheBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Get retrieves a value from Redis
func (r *RedisCacheBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss()
	}
	return value, err
}

// Delete removes a key from Redis
func (r *RedisCacheBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// DeletePattern deletes keys matching a glob pattern using SCAN.
func (r *RedisCacheBackend) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := r.scan(ctx, r.prefix+pattern)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Exists checks if a key exists in Redis
func (r *RedisCacheBackend) Exists(ctx context.Context, key string) bool {
	count, err := r.client.Exists(ctx, r.prefix+key).Result()
	return err == nil && count > 0
}

// Flush clears all keys with the prefix
func (r *RedisCacheBackend) Flush(ctx context.Context) error {
	return r.DeletePattern(ctx, "*")
}

// Stats returns Redis-specific statistics
func (r *RedisCacheBackend) Stats(ctx context.Context) (*BackendStats, error) {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &BackendStats{
			Connected: false,
			Metadata:  map[string]interface{}{"backend": "redis", "prefix": r.prefix},
		}, err
	}

	keys, err := r.scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, err
	}

	return &BackendStats{
		Connected: true,
		Keys:      int64(len(keys)),
		Metadata: map[string]interface{}{
			"backend": "redis",
			"prefix":  r.prefix,
		},
	}, nil
}

func (r *RedisCacheBackend) scan(ctx context.Context, match string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// MemoryCacheBackend implements CacheBackend using in-memory storage.
// It serves single-instance deployments and tests.
type MemoryCacheBackend struct {
	mu     sync.Mutex
	data   map[string]*cacheItem
	prefix string
	now    func() time.Time
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCacheBackend creates a new in-memory cache backend
func NewMemoryCacheBackend(prefix string) *MemoryCacheBackend {
	return &MemoryCacheBackend{
		data:   make(map[string]*cacheItem),
		prefix: prefix,
		now:    time.Now,
	}
}

// Set stores a value in memory with TTL
func (m *MemoryCacheBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[m.prefix+key] = &cacheItem{
		value:     stored,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Get retrieves a value from memory
func (m *MemoryCacheBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.live(m.prefix + key)
	if !ok {
		return nil, errCacheMiss()
	}
	return item.value, nil
}

// Delete removes a key from memory
func (m *MemoryCacheBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, m.prefix+key)
	return nil
}

// DeletePattern deletes keys starting with pattern; a trailing '*' is ignored.
func (m *MemoryCacheBackend) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := m.prefix + strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

// Exists checks if a key exists in memory
func (m *MemoryCacheBackend) Exists(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.live(m.prefix + key)
	return ok
}

// Flush clears all keys with the prefix
func (m *MemoryCacheBackend) Flush(ctx context.Context) error {
	return m.DeletePattern(ctx, "*")
}

// Stats returns memory cache statistics
func (m *MemoryCacheBackend) Stats(_ context.Context) (*BackendStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := int64(0)
	memory := int64(0)
	for key := range m.data {
		item, ok := m.live(key)
		if !ok || !strings.HasPrefix(key, m.prefix) {
			continue
		}
		keys++
		memory += int64(len(key) + len(item.value) + 24) // Rough estimate
	}

	return &BackendStats{
		Connected: true,
		Keys:      keys,
		Memory:    memory,
		Metadata: map[string]interface{}{
			"backend": "memory",
			"prefix":  m.prefix,
		},
	}, nil
}

// live returns the entry for key, dropping it when expired. Callers hold mu.
func (m *MemoryCacheBackend) live(key string) (*cacheItem, bool) {
	item, exists := m.data[key]
	if !exists {
		return nil, false
	}
	if !m.now().Before(item.expiresAt) {
		delete(m.data, key)
		return nil, false
	}
	return item, true
}
