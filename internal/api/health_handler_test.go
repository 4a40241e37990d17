package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/simple-catalog/internal/api"
	"github.com/ericfisherdev/simple-catalog/internal/repository"
	"github.com/ericfisherdev/simple-catalog/internal/services"
	"github.com/ericfisherdev/simple-catalog/internal/testutil"
)

type staticChecker struct {
	name   string
	status services.HealthStatus
}

func (s staticChecker) Name() string { return s.name }

func (s staticChecker) Check(context.Context) services.HealthCheck {
	return services.HealthCheck{Status: s.status}
}

func setupHealthRouter(t *testing.T, checkers ...services.HealthChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryItemRepository()
	healthService := services.NewHealthService("1.0.0", "test")
	for _, checker := range checkers {
		healthService.RegisterChecker(checker)
	}

	return api.NewRouter(api.RouterConfig{
		Catalog:       services.NewCatalogService(repo, quietLogger()),
		HealthService: healthService,
		Logger:        quietLogger(),
	})
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	helper := testutil.NewHTTPTestHelper(t, setupHealthRouter(t))

	recorder := helper.GET("/health", nil)
	helper.AssertStatus(recorder, http.StatusOK)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	assert.Equal(t, true, response["success"])
	assert.Equal(t, api.MessageServerRunning, response["message"])

	timestamp, ok := response["timestamp"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestHealthHandler_Liveness(t *testing.T) {
	helper := testutil.NewHTTPTestHelper(t, setupHealthRouter(t))

	recorder := helper.GET("/health/live", nil)

	helper.AssertStatus(recorder, http.StatusOK)
	assert.Contains(t, recorder.Body.String(), `"status":"alive"`)
	assert.Contains(t, recorder.Body.String(), `"version":"1.0.0"`)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		checkers       []services.HealthChecker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "ready with healthy store",
			checkers:       []services.HealthChecker{services.NewStoreHealthChecker(repository.NewMemoryItemRepository())},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"healthy"`,
		},
		{
			name: "unready when a checker fails",
			checkers: []services.HealthChecker{
				staticChecker{name: services.CatalogStoreCheckerName, status: services.HealthStatusHealthy},
				staticChecker{name: services.CatalogAPICheckerName, status: services.HealthStatusUnhealthy},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"status":"unhealthy"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := testutil.NewHTTPTestHelper(t, setupHealthRouter(t, tt.checkers...))

			recorder := helper.GET("/health/ready", nil)

			helper.AssertStatus(recorder, tt.expectedStatus)
			assert.Contains(t, recorder.Body.String(), tt.expectedBody)
		})
	}
}
