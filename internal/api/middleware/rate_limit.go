package middleware

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MessageTooManyRequests is returned with 429 responses.
const MessageTooManyRequests = "Too many requests"

// RateLimiter is a token bucket refilled continuously at capacity per window.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	perSecond  float64
	lastRefill time.Time
	lastSeen   time.Time
	now        func() time.Time
}

// NewRateLimiter creates a full bucket allowing capacity requests per window.
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	return newRateLimiterWithClock(capacity, window, time.Now)
}

func newRateLimiterWithClock(capacity int, window time.Duration, now func() time.Time) *RateLimiter {
	start := now()
	return &RateLimiter{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		perSecond:  float64(capacity) / window.Seconds(),
		lastRefill: start,
		lastSeen:   start,
		now:        now,
	}
}

// Allow takes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	if elapsed > 0 {
		rl.tokens = math.Min(rl.capacity, rl.tokens+elapsed*rl.perSecond)
		rl.lastRefill = now
	}
	rl.lastSeen = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idleSince reports how long the limiter has gone unused.
func (rl *RateLimiter) idleSince(now time.Time) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return now.Sub(rl.lastSeen)
}

// LRUCache bounds the number of per-client limiters kept in memory.
type LRUCache struct {
	items    map[string]*list.Element
	list     *list.List
	mu       sync.Mutex
	capacity int
}

type limiterEntry struct {
	limiter *RateLimiter
	key     string
}

// NewLRUCache creates a new LRU cache with the specified capacity.
func NewLRUCache(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		list:     list.New(),
	}
}

// Get returns the limiter for key, creating it with factory on first use.
func (c *LRUCache) Get(key string, factory func() *RateLimiter) *RateLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.list.MoveToFront(elem)
		return elem.Value.(*limiterEntry).limiter
	}

	limiter := factory()
	c.items[key] = c.list.PushFront(&limiterEntry{key: key, limiter: limiter})

	if c.list.Len() > c.capacity {
		c.removeElement(c.list.Back())
	}
	return limiter
}

// removeElement must be called with the lock held.
func (c *LRUCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	c.list.Remove(elem)
	delete(c.items, elem.Value.(*limiterEntry).key)
}

// Len returns the current number of items in the cache.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}

// evictIdle drops limiters unused for longer than maxAge, oldest first.
func (c *LRUCache) evictIdle(now time.Time, maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.list.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*limiterEntry).limiter.idleSince(now) <= maxAge {
			break
		}
		c.removeElement(elem)
		removed++
		elem = prev
	}
	return removed
}

// RedisRateLimiter implements a sliding-window limit shared between instances.
type RedisRateLimiter struct {
	client            redis.Cmdable
	keyPrefix         string
	requestsPerMinute int
	windowSize        time.Duration
}

// NewRedisRateLimiter creates a new Redis-based rate limiter.
func NewRedisRateLimiter(client redis.Cmdable, keyPrefix string, requestsPerMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:            client,
		keyPrefix:         keyPrefix,
		requestsPerMinute: requestsPerMinute,
		windowSize:        time.Minute,
	}
}

// Allow records the request and reports whether the window still has room.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", rl.keyPrefix, key)
	now := time.Now()
	windowStart := now.Add(-rl.windowSize)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixMilli(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, redisKey, rl.windowSize+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limiting error: %w", err)
	}

	count, err := countCmd.Result()
	if err != nil {
		return false, fmt.Errorf("failed to get request count: %w", err)
	}
	return count < int64(rl.requestsPerMinute), nil
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// KeyGenerator identifies the client (default: client IP).
	KeyGenerator func(c *gin.Context) string
	// RedisClient enables distributed limiting when set.
	RedisClient redis.Cmdable
	// Logger receives limiter backend failures.
	Logger *slog.Logger
	// CleanupInterval specifies how often idle limiters are evicted (default: 5 minutes).
	CleanupInterval time.Duration
	// MaxAge is how long a limiter may sit idle before eviction (default: 10 minutes).
	MaxAge time.Duration
	// RequestsPerMinute specifies the maximum number of requests per minute.
	RequestsPerMinute int
	// CacheCapacity bounds the in-memory limiters (default: 10000).
	CacheCapacity int
}

// RateLimitManager owns the limiter backends and the cleanup goroutine.
type RateLimitManager struct {
	cache            *LRUCache
	redisRateLimiter *RedisRateLimiter
	cleanupDone      chan struct{}
	cancel           context.CancelFunc
	config           RateLimitConfig
	shutdownOnce     sync.Once
}

// NewRateLimitManager creates a new rate limit manager and starts its cleanup loop.
func NewRateLimitManager(ctx context.Context, config RateLimitConfig) *RateLimitManager {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.MaxAge <= 0 {
		config.MaxAge = 10 * time.Minute
	}
	if config.CacheCapacity <= 0 {
		config.CacheCapacity = 10000
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	managerCtx, cancel := context.WithCancel(ctx)
	manager := &RateLimitManager{
		cache:       NewLRUCache(config.CacheCapacity),
		config:      config,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	if config.RedisClient != nil {
		manager.redisRateLimiter = NewRedisRateLimiter(config.RedisClient, "rate_limit", config.RequestsPerMinute)
	}

	go manager.cleanup(managerCtx)
	return manager
}

// Allow checks if a request should be allowed for the given key.
func (rm *RateLimitManager) Allow(ctx context.Context, key string) (bool, error) {
	if rm.redisRateLimiter != nil {
		return rm.redisRateLimiter.Allow(ctx, key)
	}
	return rm.GetLimiter(key).Allow(), nil
}

// GetLimiter gets or creates the in-memory limiter for key.
func (rm *RateLimitManager) GetLimiter(key string) *RateLimiter {
	return rm.cache.Get(key, func() *RateLimiter {
		return NewRateLimiter(rm.config.RequestsPerMinute, time.Minute)
	})
}

func (rm *RateLimitManager) cleanup(ctx context.Context) {
	defer close(rm.cleanupDone)

	ticker := time.NewTicker(rm.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rm.cache.evictIdle(now, rm.config.MaxAge)
		}
	}
}

// Shutdown stops the cleanup goroutine and waits for it to exit.
func (rm *RateLimitManager) Shutdown() {
	rm.shutdownOnce.Do(func() {
		rm.cancel()
		<-rm.cleanupDone
	})
}

// Stats returns statistics about the rate limiter cache.
func (rm *RateLimitManager) Stats() RateLimitStats {
	cacheLen := rm.cache.Len()
	return RateLimitStats{
		CacheSize:     cacheLen,
		CacheCapacity: rm.config.CacheCapacity,
		CacheUsage:    float64(cacheLen) / float64(rm.config.CacheCapacity),
		Distributed:   rm.redisRateLimiter != nil,
	}
}

// RateLimitStats holds statistics about rate limiting.
type RateLimitStats struct {
	CacheSize     int     `json:"cache_size"`
	CacheCapacity int     `json:"cache_capacity"`
	CacheUsage    float64 `json:"cache_usage"`
	Distributed   bool    `json:"distributed"`
}

// RateLimitMiddleware returns a rate limiting middleware and its manager.
// The manager must be shut down to stop its cleanup goroutine.
func RateLimitMiddleware(ctx context.Context, config RateLimitConfig) (gin.HandlerFunc, *RateLimitManager) {
	manager := NewRateLimitManager(ctx, config)

	middleware := gin.HandlerFunc(func(c *gin.Context) {
		key := manager.config.KeyGenerator(c)

		allowed, err := manager.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open when the backend is unavailable.
			manager.config.Logger.Warn("Rate limiter unavailable",
				"error", err,
				"request_id", GetRequestID(c),
			)
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", "60")
			abortWithMessage(c, http.StatusTooManyRequests, MessageTooManyRequests)
			return
		}

		c.Next()
	})

	return middleware, manager
}
