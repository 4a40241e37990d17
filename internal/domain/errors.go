package domain

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of domain error
type ErrorType string

const (
	// ValidationError represents rejected create-item input
	ValidationError ErrorType = "VALIDATION_ERROR"
	// NotFoundError represents an unknown item id
	NotFoundError ErrorType = "NOT_FOUND_ERROR"
	// InvalidArgumentError represents an item id that is not an integer
	InvalidArgumentError ErrorType = "INVALID_ARGUMENT_ERROR"
	// AuthenticationError represents a login credential mismatch
	AuthenticationError ErrorType = "AUTHENTICATION_ERROR"
	// SessionError represents a missing, malformed, unauthenticated or expired session token
	SessionError ErrorType = "SESSION_ERROR"
	// TransportError represents a failure to reach the catalog backend
	TransportError ErrorType = "TRANSPORT_ERROR"
	// InternalError represents internal system errors
	InternalError ErrorType = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with additional context
type Error struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string, details map[string]interface{}) *Error {
	return &Error{
		Type:    ValidationError,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *Error {
	return &Error{
		Type:    NotFoundError,
		Code:    code,
		Message: message,
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(code, message string, details map[string]interface{}) *Error {
	return &Error{
		Type:    InvalidArgumentError,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *Error {
	return &Error{
		Type:    AuthenticationError,
		Code:    code,
		Message: message,
	}
}

// NewSessionError creates a new session error
func NewSessionError(code, message string) *Error {
	return &Error{
		Type:    SessionError,
		Code:    code,
		Message: message,
	}
}

// NewTransportError creates a new transport error
func NewTransportError(code, message string, cause error) *Error {
	return &Error{
		Type:    TransportError,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *Error {
	return &Error{
		Type:    InternalError,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsType reports whether err is a domain error of the given type.
func IsType(err error, errorType ErrorType) bool {
	domainErr, ok := AsError(err)
	return ok && domainErr.Type == errorType
}
