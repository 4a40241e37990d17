package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware returns a CORS middleware with configurable options.
//
//nolint:gofumpt
func CORSMiddleware(allowedOrigins []string, allowedMethods []string, allowedHeaders []string, allowCredentials bool) gin.HandlerFunc {
	wildcard := len(allowedOrigins) == 0 || contains(allowedOrigins, "*")
	methods := "GET, POST, OPTIONS"
	if len(allowedMethods) > 0 {
		methods = strings.Join(allowedMethods, ", ")
	}
	headers := "Content-Type, X-Request-ID, X-Correlation-ID"
	if len(allowedHeaders) > 0 {
		headers = strings.Join(allowedHeaders, ", ")
	}

	return gin.HandlerFunc(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case contains(allowedOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			// Browsers reject credentials with a wildcard origin.
			if allowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Correlation-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

// CatalogCORSMiddleware returns the CORS policy used by the catalog API.
func CatalogCORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return CORSMiddleware(
		allowedOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
		nil,
		true,
	)
}

// contains checks if a slice contains a specific string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
