package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a spreadsheet, range or resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries the message an API returned alongside a failing status.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Err        error
}

// Error returns the API's own message.
func (e *APIError) Error() string { return e.Message }

// Unwrap returns the status-derived sentinel error.
func (e *APIError) Unwrap() error { return e.Err }

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// BearerHeaders returns an Authorization header map for token.
// An empty token yields nil.
func BearerHeaders(token string) map[string]string {
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// URLEncode percent-encodes a string for use in a URL path segment.
func URLEncode(s string) string { return url.PathEscape(s) }
