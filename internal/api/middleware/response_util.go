package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// abortWithMessage writes the {success:false, message} envelope and stops the chain.
func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// sanitizedErrorResponse renders err for middleware that cannot reach the api
// package's ErrorSanitizer. Only domain messages below 500 are exposed.
func sanitizedErrorResponse(c *gin.Context, logger *slog.Logger, err error) {
	handler := domain.NewDefaultErrorHandler(logger)
	handler.LogError(err,
		"request_id", GetRequestID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	status := handler.StatusCode(err)
	message := "Server error"
	if domainErr, ok := domain.AsError(err); ok && status < 500 {
		message = domainErr.Message
	}
	abortWithMessage(c, status, message)
}
