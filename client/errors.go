package sensorthings

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBaseURL is returned when a base URL option is invalid.
	ErrInvalidBaseURL = errors.New("sensorthings: invalid base URL")
	// ErrNilHTTPClient indicates a nil HTTP client was provided.
	ErrNilHTTPClient = errors.New("sensorthings: http client cannot be nil")
	// ErrTooManyPages indicates a pagination walk exceeded the page cap.
	ErrTooManyPages = errors.New("sensorthings: pagination exceeded page limit")
)

// APIError represents a SensorThings error payload or HTTP failure.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Raw     []byte `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("sensorthings: api error status=%d", e.Status)
	}
	return fmt.Sprintf("sensorthings: %s (status=%d)", e.Message, e.Status)
}

// Temporary reports whether the error may be retried.
func (e *APIError) Temporary() bool {
	if e == nil {
		return false
	}
	return e.Status >= 500 && e.Status < 600
}

// FetchError wraps any failure during a pagination walk: transport errors,
// non-2xx statuses (*APIError) and response decoding errors. It records the
// page URL being fetched when the walk aborted.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("sensorthings: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
