package gateway

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrBaseURLNotConfigured is a configuration error; retrying cannot help.
	ErrBaseURLNotConfigured = errors.New("API base URL is not configured")
	// ErrEmptyBody means a success status arrived with nothing to decode.
	ErrEmptyBody = errors.New("API returned a successful status but with an empty response body")
)

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
	// Detail is the message extracted from the response body, or the status
	// text when the body had nothing usable.
	Detail string
	// Message is what callers should show.
	Message string
	// Structured is set when Detail came from a JSON "message" field.
	Structured bool
}

func (e *APIError) Error() string {
	return e.Message
}

// ProtocolError is a success status whose body could not be decoded.
type ProtocolError struct {
	URL string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid response body from %s: %v", e.URL, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports a 401 from the gateway
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsUpstreamUnavailable reports a 502 from the gateway
func IsUpstreamUnavailable(err error) bool {
	return StatusCode(err) == http.StatusBadGateway
}

// IsValidation reports a 400 from the gateway
func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}
