// Package apperrors is the error taxonomy shared by the transport, the
// repositories and the services.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("resource not found")

// NetworkError means the request never produced a response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the request was aborted after its deadline.
type TimeoutError struct {
	Method  string
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %s %s", e.Timeout, e.Method, e.URL)
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// HTTPError is a non-2xx response that is neither 404 nor a validation failure.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// ValidationError is either computed client-side or reported by the server (400/422).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NewValidationError is a shorthand for client-side checks.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError is a 404 or an empty filtered lookup.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound is errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsOffline reports whether err means the backend could not be reached at all.
// Only offline failures may be answered from cached or fallback data.
func IsOffline(err error) bool {
	var netErr *NetworkError
	var timeoutErr *TimeoutError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr)
}

// IsRetryable reports whether repeating the same read could succeed.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if IsOffline(err) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, ErrNotFound) {
		return false
	}
	return true
}

// FromStatus converts a non-2xx status into the taxonomy.
func FromStatus(statusCode int, resource, id, message string) error {
	switch statusCode {
	case http.StatusNotFound:
		return &NotFoundError{Resource: resource, ID: id}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{Message: message}
	default:
		return &HTTPError{StatusCode: statusCode, Message: message}
	}
}
