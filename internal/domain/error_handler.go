// Package domain provides the catalog and session types together with their error taxonomy.
package domain

import (
	"log/slog"
	"net/http"
)

// ErrorHandler maps domain errors to HTTP status codes and log levels.
type ErrorHandler interface {
	StatusCode(err error) int
	LogError(err error, attrs ...any)
}

// DefaultErrorHandler is the default implementation of ErrorHandler.
type DefaultErrorHandler struct {
	logger *slog.Logger
}

// NewDefaultErrorHandler creates a new default error handler.
func NewDefaultErrorHandler(logger *slog.Logger) *DefaultErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultErrorHandler{
		logger: logger,
	}
}

// StatusCode converts an error to its HTTP status code.
func (h *DefaultErrorHandler) StatusCode(err error) int {
	domainErr, ok := AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	return StatusCodeForType(domainErr.Type)
}

// StatusCodeForType maps domain error types to HTTP status codes
func StatusCodeForType(errorType ErrorType) int {
	switch errorType {
	case ValidationError, InvalidArgumentError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthenticationError, SessionError:
		return http.StatusUnauthorized
	case TransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// LogError logs the error with appropriate level based on error type
func (h *DefaultErrorHandler) LogError(err error, attrs ...any) {
	domainErr, ok := AsError(err)
	if !ok {
		h.logger.Error("Unexpected error", append(attrs, "error", err.Error())...)
		return
	}

	attrs = append(attrs,
		"error_type", string(domainErr.Type),
		"error_code", domainErr.Code,
		"error_message", domainErr.Message,
	)
	if domainErr.Cause != nil {
		attrs = append(attrs, "underlying_error", domainErr.Cause.Error())
	}

	switch domainErr.Type {
	case ValidationError, NotFoundError, InvalidArgumentError:
		// Client errors
		h.logger.Info("Client error", attrs...)
	case AuthenticationError, SessionError:
		h.logger.Warn("Auth error", attrs...)
	default:
		h.logger.Error("Server error", attrs...)
	}
}
