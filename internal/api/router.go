package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/api/middleware"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// RouterConfig holds everything the catalog API router needs.
type RouterConfig struct {
	Catalog       services.CatalogService
	HealthService *services.HealthService
	Logger        *slog.Logger
	// AccessLog receives one line per request (default: discarded).
	AccessLog io.Writer
	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string
	// RateLimit is installed after CORS when set.
	RateLimit gin.HandlerFunc
	// Development exposes server error details in responses.
	Development bool
}

// NewRouter builds the catalog API engine with its middleware chain and routes.
func NewRouter(config RouterConfig) *gin.Engine {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.AccessLog == nil {
		config.AccessLog = io.Discard
	}

	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.DefaultLoggingMiddleware(config.AccessLog, "[API]"))
	if config.Development {
		router.Use(middleware.DevelopmentRecoveryMiddleware(config.Logger))
	} else {
		router.Use(middleware.ProductionRecoveryMiddleware(config.Logger))
	}
	router.Use(middleware.CatalogCORSMiddleware(config.CORSAllowedOrigins))
	if config.RateLimit != nil {
		router.Use(config.RateLimit)
	}

	sanitizer := NewErrorSanitizer(config.Logger, config.Development)
	router.Use(middleware.ErrorHandlerMiddleware(middleware.ErrorHandlerConfig{
		CustomErrorHandler: sanitizer.SanitizedErrorResponse,
		Logger:             config.Logger,
	}))

	NewItemHandler(config.Catalog, sanitizer).RegisterRoutes(router)
	NewHealthHandler(config.HealthService).RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		FailureResponse(c, http.StatusNotFound, MessageRouteNotFound)
	})

	return router
}
