// Package web provides the catalog front end: page routes, the login flow and
// the session guard around /add-item.
package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/api"
	"github.com/ericfisherdev/simple-catalog/internal/api/middleware"
	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// RouterConfig holds everything the front-end router needs.
type RouterConfig struct {
	Catalog       client.CatalogClient
	Sessions      services.SessionService
	HealthService *services.HealthService
	Cookies       middleware.SessionCookieConfig
	Logger        *slog.Logger
	// AccessLog receives one line per request (default: discarded).
	AccessLog          io.Writer
	CORSAllowedOrigins []string
	Development        bool
}

// NewRouter builds the front-end engine with its middleware chain and routes.
func NewRouter(config RouterConfig) *gin.Engine {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.AccessLog == nil {
		config.AccessLog = io.Discard
	}

	router := gin.New()
	router.SetHTMLTemplate(NewTemplates())

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.DefaultLoggingMiddleware(config.AccessLog, "[WEB]"))
	if config.Development {
		router.Use(middleware.DevelopmentRecoveryMiddleware(config.Logger))
	} else {
		router.Use(middleware.ProductionRecoveryMiddleware(config.Logger))
	}
	router.Use(middleware.CatalogCORSMiddleware(config.CORSAllowedOrigins))
	router.Use(middleware.NewSessionGuard(config.Sessions, config.Cookies, config.Logger).Handler())

	NewPageHandler(config.Catalog, config.Sessions, config.Cookies, config.Logger).RegisterRoutes(router)
	if config.HealthService != nil {
		api.NewHealthHandler(config.HealthService).RegisterRoutes(router)
	}

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, notFoundPage, page(c, "Not Found"))
	})

	return router
}

// NewSessionLogger returns a listener that records logins and logouts.
func NewSessionLogger(logger *slog.Logger) services.SessionListener {
	return func(event domain.SessionEvent) {
		logger.Info("Session changed",
			"event", string(event.Kind),
			"email", event.Email,
			"at", event.At,
		)
	}
}
