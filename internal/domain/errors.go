package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// The HTTP boundary uses it to pick a status without knowing every error type.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found, was soft-deleted when a
	// live one was required, or belongs to another user. The three cases are
	// reported identically so tenants cannot probe each other's ids.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// InvalidOperationError indicates a well-formed request that would break a
	// hierarchy rule (e.g. a folder set as its own parent)
	InvalidOperationError struct {
		Message string
	}

	// UpstreamError indicates the object storage provider failed
	UpstreamError struct {
		Message string
		Cause   error
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string         { return e.Message }
func (e *ValidationError) Error() string       { return e.Message }
func (e *InvalidOperationError) Error() string { return e.Message }
func (e *UnauthorizedError) Error() string     { return e.Message }
func (e *ForbiddenError) Error() string        { return e.Message }

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int         { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int       { return http.StatusBadRequest }
func (e *InvalidOperationError) StatusCode() int { return http.StatusBadRequest }
func (e *UpstreamError) StatusCode() int         { return http.StatusBadGateway }
func (e *UnauthorizedError) StatusCode() int     { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int        { return http.StatusForbidden }

// Is implementations so typed errors match their sentinels
func (e *NotFoundError) Is(target error) bool         { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool       { return target == ErrValidation }
func (e *InvalidOperationError) Is(target error) bool { return target == ErrInvalidOperation }
func (e *UpstreamError) Is(target error) bool         { return target == ErrUpstream }
func (e *UnauthorizedError) Is(target error) bool     { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool        { return target == ErrForbidden }

// Unwrap exposes the storage provider error
func (e *UpstreamError) Unwrap() error { return e.Cause }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUpstream         = errors.New("upstream failure")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// NewNotFound returns a NotFoundError with the given message
func NewNotFound(message string) error {
	return &NotFoundError{Message: message}
}

// NewValidation returns a ValidationError with the given message
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// NewInvalidOperation returns an InvalidOperationError with the given message
func NewInvalidOperation(message string) error {
	return &InvalidOperationError{Message: message}
}
