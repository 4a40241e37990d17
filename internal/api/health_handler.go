package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// MessageServerRunning is returned by GET /health.
const MessageServerRunning = "Server is running"

// timestampLayout renders UTC timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	healthService *services.HealthService
	now           func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
		now:           time.Now,
	}
}

// RegisterRoutes registers health check routes.
func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	health := router.Group("/health")
	{
		health.GET("", h.HealthCheck)

		// Liveness probe - is the application alive?
		health.GET("/live", h.Liveness)

		// Readiness probe - can the application serve catalog traffic?
		health.GET("/ready", h.Readiness)
	}
}

// HealthCheck reports that the server is up.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   MessageServerRunning,
		"timestamp": h.now().UTC().Format(timestampLayout),
	})
}

// Liveness returns the liveness status
func (h *HealthHandler) Liveness(c *gin.Context) {
	response := h.healthService.Liveness()
	c.JSON(http.StatusOK, gin.H{
		"status":      "alive",
		"timestamp":   response.Timestamp.UTC().Format(timestampLayout),
		"version":     response.Version,
		"uptime":      response.Uptime.String(),
		"environment": response.Environment,
		"system":      response.System,
	})
}

// Readiness returns the readiness status
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := h.healthService.Readiness(ctx)
	c.JSON(mapHealthStatusToHTTP(response.Status), gin.H{
		"status":      string(response.Status),
		"timestamp":   response.Timestamp.UTC().Format(timestampLayout),
		"version":     response.Version,
		"uptime":      response.Uptime.String(),
		"environment": response.Environment,
		"checks":      response.Checks,
	})
}

// mapHealthStatusToHTTP maps health status to HTTP status code
func mapHealthStatusToHTTP(status services.HealthStatus) int {
	if status == services.HealthStatusHealthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
