package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCanceled is the canonical cancellation error. Every cancellation surfaced by a
// Client, whether triggered locally or reported by the transport as an abort,
// satisfies errors.Is(err, ErrCanceled).
var ErrCanceled = errors.New("llm: request canceled")

// CanceledError is returned when a request is aborted through its context.
// It matches both ErrCanceled and the context error that caused it.
type CanceledError struct {
	Cause error
}

// Error implements the error interface.
func (e *CanceledError) Error() string {
	if e.Cause != nil {
		return ErrCanceled.Error() + ": " + e.Cause.Error()
	}
	return ErrCanceled.Error()
}

// Unwrap returns the context error that caused the cancellation.
func (e *CanceledError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrCanceled.
func (e *CanceledError) Is(target error) bool {
	return target == ErrCanceled
}

// IsCanceled checks if an error is a cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// NormalizeCancellation maps any error produced while ctx is done, or any error
// wrapping a context error, to a *CanceledError. All other errors, including nil,
// are returned unchanged.
func NormalizeCancellation(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var canceled *CanceledError
	if errors.As(err, &canceled) {
		return canceled
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &CanceledError{Cause: ctxErr}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &CanceledError{Cause: context.Canceled}
	case errors.Is(err, context.DeadlineExceeded):
		return &CanceledError{Cause: context.DeadlineExceeded}
	}
	return err
}

// ErrorType represents the category of a provider error. It is used for logging;
// provider errors are always returned to the caller unchanged.
type ErrorType string

const (
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeRequestTooLarge ErrorType = "request_too_large"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeAuth            ErrorType = "auth"
	ErrorTypeProvider        ErrorType = "provider"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeCanceled        ErrorType = "canceled"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// ValidationError is returned by Request.Validate.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", strings.Join(e.Problems, "; "))
}

// IsValidationError checks if an error is a local validation error.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
