package middleware

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
)

// LoggingConfig holds configuration for the logging middleware.
type LoggingConfig struct {
	Output     io.Writer
	Prefix     string
	TimeFormat string
	SkipPaths  []string
}

// LoggingMiddleware returns an access-log middleware with custom configuration.
func LoggingMiddleware(config LoggingConfig) gin.HandlerFunc {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Prefix == "" {
		config.Prefix = "[API]"
	}
	if config.TimeFormat == "" {
		config.TimeFormat = "2006/01/02 - 15:04:05"
	}

	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			requestID := ""
			if id, ok := param.Keys[string(RequestIDKey)].(string); ok {
				requestID = fmt.Sprintf(" | ReqID: %s", id)
			}

			return fmt.Sprintf("%s %v | %3d | %13v | %15s | %-7s %#v%s\n%s",
				config.Prefix,
				param.TimeStamp.Format(config.TimeFormat),
				param.StatusCode,
				param.Latency,
				param.ClientIP,
				param.Method,
				param.Path,
				requestID,
				param.ErrorMessage,
			)
		},
		Output:    config.Output,
		SkipPaths: config.SkipPaths,
	})
}

// DefaultLoggingMiddleware logs to output with prefix, skipping health probes.
func DefaultLoggingMiddleware(output io.Writer, prefix string) gin.HandlerFunc {
	return LoggingMiddleware(LoggingConfig{
		Output: output,
		Prefix: prefix,
		SkipPaths: []string{
			"/health",
			"/health/live",
			"/health/ready",
		},
	})
}
