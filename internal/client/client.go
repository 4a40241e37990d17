// Package client provides an HTTP client for the catalog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// MessageCatalogUnavailable is reported when the catalog API cannot be reached.
const MessageCatalogUnavailable = "Catalog API is unavailable"

// CatalogClient is the catalog API as seen by the web front end and the CLI.
type CatalogClient interface {
	// ListItems returns every catalog item.
	ListItems(ctx context.Context) ([]domain.Item, error)
	// GetItem returns the item with the given id.
	GetItem(ctx context.Context, id string) (domain.Item, error)
	// CreateItem submits a new item and returns it as stored.
	CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error)
	// Health reports the API's health endpoint.
	Health(ctx context.Context) (HealthStatus, error)
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Config holds configuration for the catalog client.
type Config struct {
	BaseURL    string        // API root (default: http://localhost:5000)
	Timeout    time.Duration // Per-request timeout (default: 10 seconds)
	Attempts   uint          // Attempts for retryable failures (default: 3)
	Delay      time.Duration // Initial backoff between attempts (default: 200ms)
	MaxDelay   time.Duration // Backoff cap (default: 2 seconds)
	HTTPClient *http.Client  // Optional transport override
	Logger     *slog.Logger  // Logger instance
}

// HTTPCatalogClient implements CatalogClient over HTTP.
type HTTPCatalogClient struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// NewCatalogClient creates a new catalog API client.
func NewCatalogClient(config Config) *HTTPCatalogClient {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:5000"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Attempts == 0 {
		config.Attempts = 3
	}
	if config.Delay <= 0 {
		config.Delay = 200 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 2 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPCatalogClient{
		config: config,
		http:   httpClient,
		logger: config.Logger,
	}
}

// envelope is the {success, message, data, count} shape every catalog response uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    T      `json:"data"`
	Count   int    `json:"count"`
}

// ListItems calls GET /items.
func (c *HTTPCatalogClient) ListItems(ctx context.Context) ([]domain.Item, error) {
	var resp envelope[[]domain.Item]
	if err := c.do(ctx, http.MethodGet, "/items", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []domain.Item{}
	}
	return resp.Data, nil
}

// GetItem calls GET /items/:id.
func (c *HTTPCatalogClient) GetItem(ctx context.Context, id string) (domain.Item, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Item{}, domain.NewNotFoundError("ITEM_NOT_FOUND", domain.MessageItemNotFound)
	}

	var resp envelope[domain.Item]
	if err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(id), nil, &resp); err != nil {
		return domain.Item{}, err
	}
	return resp.Data, nil
}

// CreateItem calls POST /items.
func (c *HTTPCatalogClient) CreateItem(ctx context.Context, req domain.CreateItemRequest) (domain.Item, error) {
	var resp envelope[domain.Item]
	if err := c.do(ctx, http.MethodPost, "/items", req, &resp); err != nil {
		return domain.Item{}, err
	}
	return resp.Data, nil
}

// Health calls GET /health.
func (c *HTTPCatalogClient) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}

// do performs one logical call, retrying transport failures with backoff.
// Writes are only retried when the request never reached the server.
func (c *HTTPCatalogClient) do(ctx context.Context, method, endpoint string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return domain.NewInternalError("REQUEST_ENCODE_FAILED", "Failed to encode request", err)
		}
	}

	idempotent := method == http.MethodGet

	err := retry.Do(
		func() error {
			err := c.attempt(ctx, method, endpoint, payload, result)
			if err == nil || !retry.IsRecoverable(err) {
				return err
			}
			if !domain.IsType(err, domain.TransportError) {
				return retry.Unrecoverable(err)
			}
			if !idempotent && !isDialError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.config.Attempts),
		retry.Delay(c.config.Delay),
		retry.MaxDelay(c.config.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Retrying catalog request",
				"method", method,
				"endpoint", endpoint,
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if err == nil {
		return nil
	}

	if _, ok := domain.AsError(err); ok {
		return err
	}
	// Context cancellation surfaces from retry-go undecorated.
	return domain.NewTransportError("CATALOG_UNREACHABLE", MessageCatalogUnavailable, err)
}

// attempt performs a single HTTP round trip and maps the response to an error.
func (c *HTTPCatalogClient) attempt(ctx context.Context, method, endpoint string, payload []byte, result interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, reqBody)
	if err != nil {
		return domain.NewInternalError("REQUEST_BUILD_FAILED", "Failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewTransportError("CATALOG_UNREACHABLE", MessageCatalogUnavailable, err)
	}

	return c.handleResponse(resp, result)
}

// handleResponse processes the HTTP response and closes its body.
//
//nolint:bodyclose // Response body is closed by this function
func (c *HTTPCatalogClient) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewTransportError("CATALOG_READ_FAILED", MessageCatalogUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return retry.Unrecoverable(domain.NewTransportError("CATALOG_DECODE_FAILED",
				"Catalog API returned an unexpected response", err))
		}
	}
	return nil
}

// apiError maps a failed response onto the domain taxonomy.
func apiError(status int, body []byte) error {
	var resp envelope[json.RawMessage]
	message := ""
	if json.Unmarshal(body, &resp) == nil {
		message = resp.Message
	}

	switch {
	case status == http.StatusNotFound:
		if message == "" {
			message = domain.MessageItemNotFound
		}
		return domain.NewNotFoundError("ITEM_NOT_FOUND", message)
	case status == http.StatusBadRequest:
		if message == "" {
			message = "Invalid request"
		}
		return domain.NewValidationError("CATALOG_REJECTED", message, nil)
	case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
		return domain.NewTransportError("CATALOG_SERVER_ERROR", MessageCatalogUnavailable,
			fmt.Errorf("catalog API responded %d: %s", status, message))
	default:
		return retry.Unrecoverable(domain.NewTransportError("CATALOG_UNEXPECTED_STATUS", MessageCatalogUnavailable,
			fmt.Errorf("catalog API responded %d: %s", status, message)))
	}
}

// isDialError reports whether err happened before a connection was established.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
