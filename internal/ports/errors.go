package ports

import (
	"errors"
	"fmt"
	"time"
)

// Common infrastructure errors that can occur during external service
// interactions.
var (
	// ErrRateLimited indicates that the provider has rate limited the
	// request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that the external service is
	// unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidResponse indicates that the service returned an invalid
	// response.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrAuthenticationFailed indicates that authentication with the
	// service failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrKeyNotFound indicates that a requested document key does not
	// exist in the store.
	ErrKeyNotFound = errors.New("key not found")
)

// GatewayError represents an error from a completion provider. It
// includes the model, the operation that failed, and any rate limit
// information, while preserving the underlying error for inspection.
type GatewayError struct {
	// Model is the identifier of the model that generated the error.
	Model string

	// Operation is the name of the operation that failed.
	Operation string

	// Err is the underlying error.
	Err error

	// RetryAfter indicates how long to wait before retrying, if the
	// provider supplied it.
	RetryAfter *time.Duration
}

// Error implements the error interface for GatewayError.
func (e *GatewayError) Error() string {
	if e.RetryAfter != nil {
		return fmt.Sprintf("gateway error: model=%s, operation=%s, retry_after=%s, err=%v",
			e.Model, e.Operation, *e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("gateway error: model=%s, operation=%s, err=%v", e.Model, e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *GatewayError) Unwrap() error { return e.Err }

// NewGatewayError creates a GatewayError with the given details.
func NewGatewayError(model, operation string, err error) *GatewayError {
	return &GatewayError{Model: model, Operation: operation, Err: err}
}
