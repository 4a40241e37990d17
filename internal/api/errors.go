package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

// Response messages shared by the catalog handlers.
const (
	MessageServerError        = "Server error"
	MessageInvalidRequestBody = "Invalid request body"
	MessageBodyTooLarge       = "Request body too large"
	MessageRouteNotFound      = "Route not found"
	MessageSomethingWentWrong = "Something went wrong"
)

// CorrelationIDHeader carries the id that ties a response to its log entry.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationIDKey = "correlation_id"

// ErrorSanitizer provides safe error handling that prevents information disclosure
type ErrorSanitizer struct {
	logger        *slog.Logger
	exposeDetails bool
}

// NewErrorSanitizer creates a new error sanitizer. exposeDetails puts the
// underlying message of server errors in the response and is meant for development.
func NewErrorSanitizer(logger *slog.Logger, exposeDetails bool) *ErrorSanitizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorSanitizer{logger: logger, exposeDetails: exposeDetails}
}

// SanitizedErrorResponse logs err with a correlation id and writes the
// {success:false, message[, error]} envelope with the mapped status.
func (s *ErrorSanitizer) SanitizedErrorResponse(c *gin.Context, err error) {
	correlationID := s.getOrCreateCorrelationID(c)

	domainErr, isDomainError := domain.AsError(err)

	s.logErrorWithContext(c, err, correlationID, isDomainError, domainErr)

	statusCode, response := s.sanitizeErrorForClient(err, domainErr, isDomainError)
	c.AbortWithStatusJSON(statusCode, response)
}

// getOrCreateCorrelationID gets existing correlation ID from context or creates new one
func (s *ErrorSanitizer) getOrCreateCorrelationID(c *gin.Context) string {
	if id := c.GetString(correlationIDKey); id != "" {
		return id
	}

	correlationID := c.GetHeader(CorrelationIDHeader)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	c.Set(correlationIDKey, correlationID)
	c.Header(CorrelationIDHeader, correlationID)
	return correlationID
}

// logErrorWithContext logs detailed error information server-side
func (s *ErrorSanitizer) logErrorWithContext(
	c *gin.Context,
	err error,
	correlationID string,
	isDomainError bool,
	domainErr *domain.Error,
) {
	attrs := []any{
		slog.String("correlation_id", correlationID),
		slog.String("request_id", c.GetString("request_id")),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("remote_addr", c.ClientIP()),
	}

	if !isDomainError {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.ErrorContext(context.Background(), "Unexpected system error occurred", attrs...)
		return
	}

	attrs = append(attrs,
		slog.String("error_type", string(domainErr.Type)),
		slog.String("error_code", domainErr.Code),
		slog.String("error_message", domainErr.Message),
	)
	if domainErr.Cause != nil {
		attrs = append(attrs, slog.String("underlying_error", domainErr.Cause.Error()))
	}
	for key, value := range domainErr.Details {
		if !isSensitiveField(key) {
			attrs = append(attrs, slog.Any(fmt.Sprintf("detail_%s", key), value))
		}
	}

	// Client mistakes are routine; only server faults are errors.
	if statusCodeForDomainError(domainErr.Type) < http.StatusInternalServerError {
		s.logger.WarnContext(context.Background(), "Request rejected", attrs...)
		return
	}
	s.logger.ErrorContext(context.Background(), "Domain error occurred", attrs...)
}

// sanitizeErrorForClient returns safe error response for client consumption
func (s *ErrorSanitizer) sanitizeErrorForClient(err error, domainErr *domain.Error, isDomainError bool) (int, gin.H) {
	statusCode := http.StatusInternalServerError
	if isDomainError {
		statusCode = statusCodeForDomainError(domainErr.Type)
	}

	if statusCode < http.StatusInternalServerError {
		return statusCode, gin.H{
			"success": false,
			"message": domainErr.Message,
		}
	}

	detail := MessageSomethingWentWrong
	if s.exposeDetails {
		detail = err.Error()
		if isDomainError {
			detail = domainErr.Message
		}
	}

	return statusCode, gin.H{
		"success": false,
		"message": MessageServerError,
		"error":   detail,
	}
}

// statusCodeForDomainError maps domain error types to HTTP status codes
func statusCodeForDomainError(errorType domain.ErrorType) int {
	return domain.StatusCodeForType(errorType)
}

// isSensitiveField checks if a field contains sensitive information that shouldn't be logged
func isSensitiveField(field string) bool {
	sensitiveFields := map[string]bool{
		"password":      true,
		"token":         true,
		"secret":        true,
		"authorization": true,
		"cookie":        true,
		"session":       true,
	}
	return sensitiveFields[field]
}
