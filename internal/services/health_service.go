// Package services provides the catalog, session and health services.
package services

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/ericfisherdev/simple-catalog/internal/repository"
)

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	// HealthStatusHealthy indicates the component is fully operational.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusUnhealthy indicates the component is not operational.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// Names of checkers that gate readiness.
const (
	CatalogStoreCheckerName = "catalog-store"
	CatalogAPICheckerName   = "catalog-api"
	CatalogCacheCheckerName = "catalog-cache"
)

// HealthCheck represents a single health check.
type HealthCheck struct {
	LastChecked time.Time              `json:"last_checked"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Name        string                 `json:"name"`
	Message     string                 `json:"message,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Status      HealthStatus           `json:"status"`
	Duration    time.Duration          `json:"duration"`
}

// HealthResponse represents the overall health response.
type HealthResponse struct {
	Timestamp   time.Time              `json:"timestamp"`
	System      map[string]interface{} `json:"system,omitempty"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Status      HealthStatus           `json:"status"`
	Checks      []HealthCheck          `json:"checks"`
	Uptime      time.Duration          `json:"uptime"`
}

// HealthChecker defines the interface for health checkers.
type HealthChecker interface {
	Check(ctx context.Context) HealthCheck
	Name() string
}

// HealthService manages health checks for the application.
type HealthService struct {
	startTime time.Time
	version   string
	env       string
	checkers  []HealthChecker
}

// NewHealthService creates a new health service.
func NewHealthService(version, env string) *HealthService {
	return &HealthService{
		checkers:  make([]HealthChecker, 0),
		startTime: time.Now(),
		version:   version,
		env:       env,
	}
}

// RegisterChecker registers a health checker.
func (h *HealthService) RegisterChecker(checker HealthChecker) {
	h.checkers = append(h.checkers, checker)
}

// Liveness reports that the process is up.
func (h *HealthService) Liveness() HealthResponse {
	return HealthResponse{
		Status:      HealthStatusHealthy,
		Timestamp:   time.Now(),
		Version:     h.version,
		Uptime:      time.Since(h.startTime),
		Environment: h.env,
		Checks:      []HealthCheck{},
		System: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Readiness runs every registered checker; any unhealthy checker makes the service unready.
func (h *HealthService) Readiness(ctx context.Context) HealthResponse {
	checks := make([]HealthCheck, 0, len(h.checkers))
	overallStatus := HealthStatusHealthy

	for _, checker := range h.checkers {
		start := time.Now()
		check := checker.Check(ctx)
		check.Name = checker.Name()
		check.Duration = time.Since(start)
		check.LastChecked = time.Now()

		checks = append(checks, check)

		if check.Status != HealthStatusHealthy {
			overallStatus = HealthStatusUnhealthy
		}
	}

	return HealthResponse{
		Status:      overallStatus,
		Timestamp:   time.Now(),
		Version:     h.version,
		Uptime:      time.Since(h.startTime),
		Checks:      checks,
		Environment: h.env,
	}
}

// StoreHealthChecker checks that the item store answers queries.
type StoreHealthChecker struct {
	repo repository.ItemQueryRepository
}

// NewStoreHealthChecker creates a health checker for the item store.
func NewStoreHealthChecker(repo repository.ItemQueryRepository) *StoreHealthChecker {
	return &StoreHealthChecker{repo: repo}
}

// Name returns the checker name.
func (s *StoreHealthChecker) Name() string {
	return CatalogStoreCheckerName
}

// Check counts the stored items.
func (s *StoreHealthChecker) Check(ctx context.Context) HealthCheck {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return HealthCheck{
			Status: HealthStatusUnhealthy,
			Error:  err.Error(),
		}
	}
	return HealthCheck{
		Status:  HealthStatusHealthy,
		Details: map[string]interface{}{"items": count},
	}
}

// CacheStatsProvider is implemented by caches that count hits and misses.
type CacheStatsProvider interface {
	Stats(ctx context.Context) (*CacheStats, error)
}

// CacheHealthChecker reports cache counters. It is always healthy; backend
// failures only show up in the check message.
type CacheHealthChecker struct {
	cache CacheStatsProvider
}

// NewCacheHealthChecker creates a health checker for the catalog read cache.
func NewCacheHealthChecker(cache CacheStatsProvider) *CacheHealthChecker {
	return &CacheHealthChecker{cache: cache}
}

// Name returns the checker name.
func (c *CacheHealthChecker) Name() string {
	return CatalogCacheCheckerName
}

// Check reads the cache statistics.
func (c *CacheHealthChecker) Check(ctx context.Context) HealthCheck {
	stats, err := c.cache.Stats(ctx)
	check := HealthCheck{
		Status: HealthStatusHealthy,
		Details: map[string]interface{}{
			"hits":      stats.Hits,
			"misses":    stats.Misses,
			"hit_ratio": stats.HitRatio,
		},
	}
	if stats.Backend != nil {
		check.Details["backend_connected"] = stats.Backend.Connected
		check.Details["backend_keys"] = stats.Backend.Keys
	}
	if err != nil {
		check.Message = fmt.Sprintf("cache backend degraded: %v", err)
	}
	return check
}

// HTTPHealthChecker checks HTTP endpoints.
type HTTPHealthChecker struct {
	name     string
	url      string
	timeout  time.Duration
	expected int
	client   *http.Client
}

// NewHTTPHealthChecker creates a new HTTP health checker.
func NewHTTPHealthChecker(name, url string, timeout time.Duration, expectedStatus int) *HTTPHealthChecker {
	return &HTTPHealthChecker{
		name:     name,
		url:      url,
		timeout:  timeout,
		expected: expectedStatus,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name returns the checker name.
func (h *HTTPHealthChecker) Name() string {
	return h.name
}

// Check performs the HTTP health check
func (h *HTTPHealthChecker) Check(ctx context.Context) HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return HealthCheck{
			Status: HealthStatusUnhealthy,
			Error:  fmt.Sprintf("failed to create request: %v", err),
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return HealthCheck{
			Status: HealthStatusUnhealthy,
			Error:  fmt.Sprintf("request failed: %v", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == h.expected {
		return HealthCheck{
			Status:  HealthStatusHealthy,
			Message: fmt.Sprintf("HTTP %d OK", resp.StatusCode),
		}
	}

	return HealthCheck{
		Status: HealthStatusUnhealthy,
		Error:  fmt.Sprintf("expected HTTP %d, got %d", h.expected, resp.StatusCode),
	}
}
