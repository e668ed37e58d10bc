package api

import (
	"errors"
	"fmt"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrInvalidKey indicates the server rejected the API key, or the
	// token handshake returned no usable token.
	ErrInvalidKey = errors.New("could not authenticate with the provided API key")
	// ErrRateLimited indicates the cached token limit is exhausted.
	ErrRateLimited = errors.New("rate limit hit")
	// ErrConnection indicates a network-level or HTTP-transport failure.
	ErrConnection = errors.New("error communicating with the API")
)

// ConnectionError represents a network-level, timeout, or HTTP-transport
// failure while talking to the PoolCopilot API.
type ConnectionError struct {
	Err        error
	URL        string
	StatusCode int // zero when the failure happened below HTTP
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error communicating with the API: %v", e.Err)
	}
	return fmt.Sprintf("error communicating with the API: status %d", e.StatusCode)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// InvalidKeyError represents an authentication rejection: an HTTP 403 from
// the token endpoint, or a token response without a usable token.
type InvalidKeyError struct {
	Message string
}

func (e *InvalidKeyError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrInvalidKey.Error()
}

// Is implements errors.Is for sentinel error matching.
func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// RateLimitError is raised before any HTTP call when the cached token limit
// indicates the credential's quota is exhausted.
type RateLimitError struct{}

func (e *RateLimitError) Error() string {
	return ErrRateLimited.Error()
}

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// ProtocolError represents a contract violation by the server, such as a
// successful response whose body is not JSON. It carries the offending
// content type and raw body text for diagnostics.
type ProtocolError struct {
	ContentType string
	Body        string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected content type response from the PoolCopilot API: %q", e.ContentType)
}
