package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNoCountURL is returned by TotalRecords when no count endpoint is set.
	ErrNoCountURL = errors.New("count endpoint is not configured")

	// ErrMissingTotal is returned when the count response has no recordsTotal.
	ErrMissingTotal = errors.New("count response has no recordsTotal field")
)

// StatusError reports a response whose status is not 2xx.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code received.
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.StatusCode, ErrUnexpectedStatus)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
