package storeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrInvalidRequest is returned when the server rejects the request payload
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized is returned when credentials or the bearer token are rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for unexpected 5xx responses
	ErrServerError = errors.New("server error")

	// ErrNetworkError is returned when the request never completed
	ErrNetworkError = errors.New("network error")

	// ErrUnexpectedResponse is returned when a 2xx body cannot be decoded
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// APIError carries the server's own error envelope. Message is surfaced to
// the user verbatim where the flow calls for it (order rejection).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d, code=%s, message=%s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the status code onto the sentinel taxonomy so callers can use
// errors.Is without losing the server message.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrUnauthorized
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return ErrInvalidRequest
	default:
		return ErrServerError
	}
}
