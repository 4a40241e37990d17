package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/config"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/repository"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// Version is reported by the health endpoints. Overridden at link time.
var Version = "1.0.0"

// ServiceNames contains constants for service names used in DI container
const (
	ConfigService             = "config"
	LoggerService             = "logger"
	RedisClientService        = "redis_client"
	ItemRepositoryService     = "item_repository"
	CatalogService            = "catalog_service"
	HealthService             = "health_service"
	CatalogClientService      = "catalog_client"
	CredentialVerifierService = "credential_verifier"
	SessionService            = "session_service"
)

// catalogCachePrefix namespaces the web front end's cache keys.
const catalogCachePrefix = "catalog:"

// RegisterAPIServices registers the services of the catalog API process
func RegisterAPIServices(container Container, cfg *config.AppConfig, logger *slog.Logger) error {
	if err := registerShared(container, cfg, logger); err != nil {
		return err
	}

	// Item Repository
	err := container.RegisterSingleton(ItemRepositoryService, func(ctx context.Context, c Container) (interface{}, error) {
		if cfg.ShouldSeedCatalog() {
			return repository.NewMemoryItemRepository(domain.SeedItems()...), nil
		}
		return repository.NewMemoryItemRepository(), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register item repository: %w", err)
	}

	// Catalog Service
	err = container.RegisterSingleton(CatalogService, func(ctx context.Context, c Container) (interface{}, error) {
		repo, err := ResolveAs[repository.ItemRepository](ctx, c, ItemRepositoryService)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve item repository: %w", err)
		}
		return services.NewCatalogService(repo, logger), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register catalog service: %w", err)
	}

	// Health Service
	err = container.RegisterSingleton(HealthService, func(ctx context.Context, c Container) (interface{}, error) {
		repo, err := ResolveAs[repository.ItemRepository](ctx, c, ItemRepositoryService)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve item repository: %w", err)
		}

		health := services.NewHealthService(Version, cfg.GetEnvironment())
		health.RegisterChecker(services.NewStoreHealthChecker(repo))
		return health, nil
	})
	if err != nil {
		return fmt.Errorf("failed to register health service: %w", err)
	}

	return nil
}

// RegisterWebServices registers the services of the web front end process
func RegisterWebServices(container Container, cfg *config.AppConfig, logger *slog.Logger) error {
	if err := registerShared(container, cfg, logger); err != nil {
		return err
	}

	// Catalog Client
	err := container.RegisterSingleton(CatalogClientService, func(ctx context.Context, c Container) (interface{}, error) {
		var catalog client.CatalogClient = client.NewCatalogClient(client.Config{
			BaseURL:  cfg.GetCatalogAPIURL(),
			Timeout:  cfg.GetCatalogAPITimeout(),
			Attempts: uint(cfg.GetCatalogAPIRetries()), //nolint:gosec // validated to be at least 1
			Logger:   logger,
		})

		if cfg.GetCatalogCacheTTL() <= 0 {
			return catalog, nil
		}

		var backend services.CacheBackend = services.NewMemoryCacheBackend(catalogCachePrefix)
		if cfg.IsRedisEnabled() {
			rdb, err := ResolveAs[redis.UniversalClient](ctx, c, RedisClientService)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve redis client: %w", err)
			}
			backend = services.NewRedisCacheBackend(rdb, catalogCachePrefix)
		}

		return services.NewCachedCatalogClient(catalog, backend, services.CacheConfig{
			ListTTL: cfg.GetCatalogCacheTTL(),
			Logger:  logger,
		}), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register catalog client: %w", err)
	}

	// Credential Verifier
	err = container.RegisterSingleton(CredentialVerifierService, func(ctx context.Context, c Container) (interface{}, error) {
		verifier, err := services.NewBcryptCredentialVerifier(cfg.GetAuthEmail(), cfg.GetAuthPassword())
		if err != nil {
			return nil, fmt.Errorf("failed to hash configured credentials: %w", err)
		}
		return services.CredentialVerifier(verifier), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register credential verifier: %w", err)
	}

	// Session Gate
	err = container.RegisterSingleton(SessionService, func(ctx context.Context, c Container) (interface{}, error) {
		verifier, err := ResolveAs[services.CredentialVerifier](ctx, c, CredentialVerifierService)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve credential verifier: %w", err)
		}

		return services.NewSessionGate(verifier, services.SessionGateConfig{
			TTL:             cfg.GetSessionTTL(),
			ProtectedPath:   cfg.GetProtectedPath(),
			LoginPath:       cfg.GetLoginPath(),
			DefaultRedirect: cfg.GetDefaultRedirect(),
			Logger:          logger,
		}), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register session service: %w", err)
	}

	// Health Service
	err = container.RegisterSingleton(HealthService, func(ctx context.Context, c Container) (interface{}, error) {
		health := services.NewHealthService(Version, cfg.GetEnvironment())
		health.RegisterChecker(services.NewHTTPHealthChecker(
			services.CatalogAPICheckerName,
			cfg.GetCatalogAPIURL()+"/health",
			cfg.GetCatalogAPITimeout(),
			http.StatusOK,
		))

		catalog, err := ResolveAs[client.CatalogClient](ctx, c, CatalogClientService)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve catalog client: %w", err)
		}
		if cache, ok := catalog.(services.CacheStatsProvider); ok {
			health.RegisterChecker(services.NewCacheHealthChecker(cache))
		}
		return health, nil
	})
	if err != nil {
		return fmt.Errorf("failed to register health service: %w", err)
	}

	return nil
}

// registerShared registers config, logger and the optional Redis client
func registerShared(container Container, cfg *config.AppConfig, logger *slog.Logger) error {
	err := container.RegisterSingleton(ConfigService, func(ctx context.Context, c Container) (interface{}, error) {
		return cfg, nil
	})
	if err != nil {
		return fmt.Errorf("failed to register config service: %w", err)
	}

	err = container.RegisterSingleton(LoggerService, func(ctx context.Context, c Container) (interface{}, error) {
		return logger, nil
	})
	if err != nil {
		return fmt.Errorf("failed to register logger: %w", err)
	}

	if !cfg.IsRedisEnabled() {
		return nil
	}

	err = container.RegisterSingleton(RedisClientService, func(ctx context.Context, c Container) (interface{}, error) {
		return redis.UniversalClient(redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register redis client: %w", err)
	}

	return nil
}

// ResolveCatalogService resolves the catalog service from the container
func ResolveCatalogService(container Container) (services.CatalogService, error) {
	return ResolveAs[services.CatalogService](context.Background(), container, CatalogService)
}

// ResolveHealthService resolves the health service from the container
func ResolveHealthService(container Container) (*services.HealthService, error) {
	return ResolveAs[*services.HealthService](context.Background(), container, HealthService)
}

// ResolveCatalogClient resolves the catalog API client from the container
func ResolveCatalogClient(container Container) (client.CatalogClient, error) {
	return ResolveAs[client.CatalogClient](context.Background(), container, CatalogClientService)
}

// ResolveSessionService resolves the session gate from the container
func ResolveSessionService(container Container) (services.SessionService, error) {
	return ResolveAs[services.SessionService](context.Background(), container, SessionService)
}

// ResolveRedisClient returns the shared Redis client, or nil when Redis is disabled
func ResolveRedisClient(container Container) (redis.UniversalClient, error) {
	if !container.Has(RedisClientService) {
		return nil, nil
	}
	return ResolveAs[redis.UniversalClient](context.Background(), container, RedisClientService)
}
