package container

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/config"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDIContainer_RegisterAndResolve(t *testing.T) {
	c := NewContainer()
	calls := 0

	require.NoError(t, c.Register("transient", func(ctx context.Context, c Container) (interface{}, error) {
		calls++
		return calls, nil
	}))
	require.NoError(t, c.RegisterSingleton("singleton", func(ctx context.Context, c Container) (interface{}, error) {
		return &struct{ name string }{name: "once"}, nil
	}))

	first, err := c.Resolve("transient")
	require.NoError(t, err)
	second, err := c.Resolve("transient")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	a, err := c.Resolve("singleton")
	require.NoError(t, err)
	b, err := c.Resolve("singleton")
	require.NoError(t, err)
	assert.Same(t, a, b)

	assert.True(t, c.Has("singleton"))
	assert.False(t, c.Has("missing"))

	_, err = c.Resolve("missing")
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "SERVICE_NOT_FOUND", depErr.Code)
}

func TestDIContainer_SingletonErrorIsSticky(t *testing.T) {
	c := NewContainer()
	require.NoError(t, c.RegisterSingleton("broken", func(ctx context.Context, c Container) (interface{}, error) {
		return nil, errors.New("boom")
	}))

	for i := 0; i < 2; i++ {
		instance, err := c.Resolve("broken")
		assert.EqualError(t, err, "boom")
		assert.Nil(t, instance)
	}
}

func TestResolveAs_TypeMismatch(t *testing.T) {
	c := NewContainer()
	require.NoError(t, c.RegisterSingleton("number", func(ctx context.Context, c Container) (interface{}, error) {
		return 42, nil
	}))

	n, err := ResolveAs[int](context.Background(), c, "number")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = ResolveAs[string](context.Background(), c, "number")
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "SERVICE_TYPE_MISMATCH", depErr.Code)
}

func TestInitializeAPI(t *testing.T) {
	t.Setenv("SEED_CATALOG", "true")
	t.Setenv("REDIS_ENABLED", "false")

	c, err := InitializeAPI(config.NewConfig(), quietLogger())
	require.NoError(t, err)

	catalog, err := ResolveCatalogService(c)
	require.NoError(t, err)
	items, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, len(domain.SeedItems()))

	health, err := ResolveHealthService(c)
	require.NoError(t, err)
	readiness := health.Readiness(context.Background())
	assert.Equal(t, services.HealthStatusHealthy, readiness.Status)
	require.Len(t, readiness.Checks, 1)
	assert.Equal(t, services.CatalogStoreCheckerName, readiness.Checks[0].Name)

	rdb, err := ResolveRedisClient(c)
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestInitializeAPI_Unseeded(t *testing.T) {
	t.Setenv("SEED_CATALOG", "false")

	c, err := InitializeAPI(config.NewConfig(), quietLogger())
	require.NoError(t, err)

	catalog, err := ResolveCatalogService(c)
	require.NoError(t, err)
	items, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInitializeWeb(t *testing.T) {
	t.Run("plain client", func(t *testing.T) {
		t.Setenv("CATALOG_CACHE_TTL", "")
		t.Setenv("REDIS_ENABLED", "false")
		for _, key := range []string{"AUTH_EMAIL", "AUTH_PASSWORD", "PROTECTED_PATH", "LOGIN_PATH"} {
			t.Setenv(key, "")
		}

		c, err := InitializeWeb(config.NewConfig(), quietLogger())
		require.NoError(t, err)

		catalog, err := ResolveCatalogClient(c)
		require.NoError(t, err)
		assert.IsType(t, &client.HTTPCatalogClient{}, catalog)

		health, err := ResolveHealthService(c)
		require.NoError(t, err)
		readiness := health.Readiness(context.Background())
		for _, check := range readiness.Checks {
			assert.NotEqual(t, services.CatalogCacheCheckerName, check.Name)
		}

		sessions, err := ResolveSessionService(c)
		require.NoError(t, err)
		assert.Equal(t, "/login?redirect=%2Fadd-item", sessions.LoginURL("/add-item"))

		token, err := sessions.Login(context.Background(), "admin@example.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", token.Email)
	})

	t.Run("cached client", func(t *testing.T) {
		t.Setenv("CATALOG_CACHE_TTL", "30s")
		t.Setenv("REDIS_ENABLED", "false")

		c, err := InitializeWeb(config.NewConfig(), quietLogger())
		require.NoError(t, err)

		catalog, err := ResolveCatalogClient(c)
		require.NoError(t, err)
		assert.IsType(t, &services.CachedCatalogClient{}, catalog)

		health, err := ResolveHealthService(c)
		require.NoError(t, err)
		readiness := health.Readiness(context.Background())
		names := make([]string, 0, len(readiness.Checks))
		for _, check := range readiness.Checks {
			names = append(names, check.Name)
		}
		assert.Contains(t, names, services.CatalogCacheCheckerName)
	})
}
