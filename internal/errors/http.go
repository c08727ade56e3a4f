package errors

import "fmt"

// ClassifyHTTPError maps an HTTP failure to a retry category:
// 4xx client errors (except 408/429) are irrecoverable, 5xx and
// network-level errors are recoverable.
func ClassifyHTTPError(statusCode int, body string, underlying error) *ClassifiedError {
	return &ClassifiedError{
		Category:   httpErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlying,
	}
}

func httpErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		return Recoverable
	}
}

// NewHTTPError creates a classified error for a non-success response.
func NewHTTPError(statusCode int, body, operation string) *ClassifiedError {
	return ClassifyHTTPError(statusCode, body, fmt.Errorf("%s failed: HTTP %d", operation, statusCode))
}

// NewNetworkError creates a classified error for a transport failure.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}
