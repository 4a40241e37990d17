package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// ErrorHandlerConfig holds configuration for error handling middleware.
type ErrorHandlerConfig struct {
	// CustomErrorHandler renders the last error recorded on the context.
	CustomErrorHandler func(c *gin.Context, err error)
	// Logger is used by the default renderer.
	Logger *slog.Logger
}

// ErrorHandlerMiddleware renders errors that handlers record with c.Error.
func ErrorHandlerMiddleware(config ErrorHandlerConfig) gin.HandlerFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return gin.HandlerFunc(func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if config.CustomErrorHandler != nil {
			config.CustomErrorHandler(c, err)
			return
		}
		sanitizedErrorResponse(c, config.Logger, err)
	})
}

// AbortWithError records err for ErrorHandlerMiddleware and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err) // Rendered by the error handler middleware
	c.Abort()
}

// AbortWithValidationError aborts the request with a validation error.
func AbortWithValidationError(c *gin.Context, code, message string, details map[string]interface{}) {
	AbortWithError(c, domain.NewValidationError(code, message, details))
}

// AbortWithNotFoundError aborts the request with a not found error.
func AbortWithNotFoundError(c *gin.Context, code, message string) {
	AbortWithError(c, domain.NewNotFoundError(code, message))
}

// AbortWithInternalError aborts the request with an internal error.
func AbortWithInternalError(c *gin.Context, code, message string, cause error) {
	AbortWithError(c, domain.NewInternalError(code, message, cause))
}
