package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Messages used in the recovered-panic response.
const (
	MessageInternalServerError = "Internal server error"
	MessageSomethingWentWrong  = "Something went wrong"
)

// RecoveryConfig holds configuration for the recovery middleware.
type RecoveryConfig struct {
	// Logger receives the panic with its stack.
	Logger *slog.Logger
	// ExposePanicDetails puts the panic text in the response (development only).
	ExposePanicDetails bool
	// PrintStack includes the stack trace in the log entry.
	PrintStack bool
}

// RecoveryMiddleware returns a panic recovery middleware with custom configuration.
func RecoveryMiddleware(config RecoveryConfig) gin.HandlerFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		attrs := []any{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
		}
		if config.PrintStack {
			attrs = append(attrs, "stack", string(debug.Stack()))
		}
		config.Logger.Error("Panic recovered", attrs...)

		detail := MessageSomethingWentWrong
		if config.ExposePanicDetails {
			detail = fmt.Sprint(recovered)
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": MessageInternalServerError,
			"error":   detail,
		})
	})
}

// DevelopmentRecoveryMiddleware exposes panic text in responses.
func DevelopmentRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryMiddleware(RecoveryConfig{
		Logger:             logger,
		ExposePanicDetails: true,
		PrintStack:         true,
	})
}

// ProductionRecoveryMiddleware hides panic text from responses.
func ProductionRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryMiddleware(RecoveryConfig{
		Logger:     logger,
		PrintStack: true,
	})
}
