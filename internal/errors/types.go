// Package errors provides error classification for the coordinator.
// Classification drives the view-log queue's retry policy and lets the
// synchronous core distinguish cancellation from real failures.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory determines how a failure should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may be retried with exponential backoff.
	// Examples: 5xx responses, network timeouts, connection resets.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately without retry.
	// Examples: 400, 401, 403, 404.
	Irrecoverable
)

// String returns a human-readable representation of the category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ErrCancelled marks a failure caused by intentional cancellation: a
// superseded request, a closed preview, or coordinator teardown. It is
// swallowed by the request manager and must never reach the user.
var ErrCancelled = errors.New("request cancelled")

// IsCancellation reports whether err stems from deliberate cancellation
// rather than a fault. Context cancellation counts; deadline expiry does
// not (that is a timeout, which is a real failure).
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// ClassifiedError wraps an error with categorization metadata.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Body       string // response body excerpt for diagnostics
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable reports whether err should not be retried.
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}
