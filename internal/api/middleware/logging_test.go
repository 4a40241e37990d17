package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware_Format(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logBuffer bytes.Buffer
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(LoggingConfig{Output: &logBuffer, Prefix: "[WEB]"}))
	router.GET("/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	line := logBuffer.String()
	assert.True(t, strings.HasPrefix(line, "[WEB] "), "unexpected log line: %q", line)
	assert.Contains(t, line, "| 200 |")
	assert.Contains(t, line, `"/items"`)
	assert.Contains(t, line, "ReqID: req-42")
}

func TestLoggingMiddleware_DefaultPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logBuffer bytes.Buffer
	router := gin.New()
	router.Use(LoggingMiddleware(LoggingConfig{Output: &logBuffer}))
	router.GET("/items", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items", nil))

	assert.True(t, strings.HasPrefix(logBuffer.String(), "[API] "))
	assert.NotContains(t, logBuffer.String(), "ReqID:")
}

func TestLoggingMiddleware_QuotesPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logBuffer bytes.Buffer
	router := gin.New()
	router.Use(LoggingMiddleware(LoggingConfig{Output: &logBuffer}))

	req := httptest.NewRequest(http.MethodGet, `/items/a"b`, nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, logBuffer.String(), `"/items/a\"b"`)
	assert.Contains(t, logBuffer.String(), "| 404 |")
}

func TestDefaultLoggingMiddleware_SkipsHealthProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logBuffer bytes.Buffer
	router := gin.New()
	router.Use(DefaultLoggingMiddleware(&logBuffer, "[API]"))
	for _, path := range []string{"/health", "/health/live", "/health/ready", "/items"} {
		router.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Empty(t, logBuffer.String())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items", nil))
	assert.Contains(t, logBuffer.String(), `"/items"`)
}
