// Package main provides the entry point for the catalog API server.
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

	"github.com/ericfisherdev/simple-catalog/internal/api"
	"github.com/ericfisherdev/simple-catalog/internal/api/middleware"
	"github.com/ericfisherdev/simple-catalog/internal/config"
	"github.com/ericfisherdev/simple-catalog/internal/container"
	"github.com/ericfisherdev/simple-catalog/internal/logging"
)

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// .env files never override the process environment
	if err := config.AutoLoadEnv("."); err != nil {
		return fmt.Errorf("failed to load environment files: %w", err)
	}

	// Load configuration
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

	// Initialize service container
	services, err := container.InitializeAPI(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to setup service container: %w", err)
	}

	catalog, err := container.ResolveCatalogService(services)
	if err != nil {
		return fmt.Errorf("failed to resolve catalog service: %w", err)
	}
	healthService, err := container.ResolveHealthService(services)
	if err != nil {
		return fmt.Errorf("failed to resolve health service: %w", err)
	}

	// Rate limiting middleware with configuration-driven settings
	var rateLimit gin.HandlerFunc
	if cfg.IsRateLimitEnabled() {
		redisClient, err := container.ResolveRedisClient(services)
		if err != nil {
			return fmt.Errorf("failed to resolve redis client: %w", err)
		}

		limitConfig := middleware.RateLimitConfig{
			RequestsPerMinute: cfg.GetRateLimitRequestsPerMinute(),
			CacheCapacity:     cfg.GetRateLimitCacheCapacity(),
			Logger:            logger,
		}
		if redisClient != nil {
			limitConfig.RedisClient = redisClient
			defer func() { _ = redisClient.Close() }()
		}

		middlewareFunc, manager := middleware.RateLimitMiddleware(ctx, limitConfig)
		defer manager.Shutdown()
		rateLimit = middlewareFunc
	}

	router := api.NewRouter(api.RouterConfig{
		Catalog:            catalog,
		HealthService:      healthService,
		Logger:             logger,
		AccessLog:          logOutput,
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		RateLimit:          rateLimit,
		Development:        cfg.IsDevelopment(),
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.GetServerPort(),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  cfg.GetIdleTimeout(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting catalog API", "addr", server.Addr, "environment", cfg.GetEnvironment())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context canceled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
