// Package main provides the entry point for the catalog web front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/api/middleware"
	"github.com/ericfisherdev/simple-catalog/internal/config"
	"github.com/ericfisherdev/simple-catalog/internal/container"
	"github.com/ericfisherdev/simple-catalog/internal/logging"
	"github.com/ericfisherdev/simple-catalog/internal/web"
)

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := config.AutoLoadEnv("."); err != nil {
		return fmt.Errorf("failed to load environment files: %w", err)
	}

	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logOutput := logging.New(cfg)
	defer func() { _ = logOutput.Close() }()
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	services, err := container.InitializeWeb(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to setup service container: %w", err)
	}

	catalog, err := container.ResolveCatalogClient(services)
	if err != nil {
		return fmt.Errorf("failed to resolve catalog client: %w", err)
	}
	sessions, err := container.ResolveSessionService(services)
	if err != nil {
		return fmt.Errorf("failed to resolve session gate: %w", err)
	}
	healthService, err := container.ResolveHealthService(services)
	if err != nil {
		return fmt.Errorf("failed to resolve health service: %w", err)
	}
	if redisClient, err := container.ResolveRedisClient(services); err == nil && redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	unsubscribe := sessions.Subscribe(web.NewSessionLogger(logger))
	defer unsubscribe()

	router := web.NewRouter(web.RouterConfig{
		Catalog:       catalog,
		Sessions:      sessions,
		HealthService: healthService,
		Cookies: middleware.SessionCookieConfig{
			TTL:    cfg.GetSessionTTL(),
			Secure: cfg.UseSecureCookies(),
		},
		Logger:             logger,
		AccessLog:          logOutput,
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		Development:        cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.GetWebPort(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	go func() {
		logger.Info("Starting web front end",
			"addr", server.Addr,
			"catalog_api", cfg.GetCatalogAPIURL(),
			"catalog_cache_ttl", cfg.GetCatalogCacheTTL().String(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			cancel()
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
