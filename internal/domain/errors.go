package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the web client.

// ErrExternalService indicates a transport failure talking to the backend.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrBackendStatus indicates the backend answered with a non-2xx status.
type ErrBackendStatus struct {
	Service string
	Status  int
	Body    string
}

func (e *ErrBackendStatus) Error() string {
	return fmt.Sprintf("%s API returned status %d", e.Service, e.Status)
}

// ClientError reports whether the backend rejected the request itself
// (4xx) rather than failing to serve it.
func (e *ErrBackendStatus) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates invalid credentials or an unusable token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// IsClientError reports whether err carries a 4xx answer from the backend.
func IsClientError(err error) bool {
	var status *ErrBackendStatus
	return errors.As(err, &status) && status.ClientError()
}
