package poolcopilot

import (
	"errors"
	"fmt"

	"github.com/poolcopilot/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrInvalidKey is returned when the server rejects the API key or the
	// token handshake yields no usable token.
	ErrInvalidKey = errors.New("could not authenticate with the provided API key")

	// ErrRateLimited is returned, before any HTTP call is made, when the
	// token's server-communicated quota is exhausted.
	ErrRateLimited = errors.New("rate limit hit")

	// ErrConnection is returned for network failures, HTTP error statuses,
	// and request timeouts.
	ErrConnection = errors.New("error communicating with the API")

	// ErrInvalidPumpSpeed is returned when a pump speed outside 1..3 is
	// requested. No network call is made.
	ErrInvalidPumpSpeed = errors.New("pump speed must be 1, 2 or 3")
)

// PoolCopilotError is implemented by all SDK errors.
type PoolCopilotError interface {
	error
	PoolCopilotError() // marker method
}

// ConnectionError represents a network-level, HTTP-transport, or timeout
// failure while communicating with the PoolCopilot API.
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

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// PoolCopilotError implements the PoolCopilotError interface.
func (e *ConnectionError) PoolCopilotError() {}

// InvalidKeyError represents an authentication rejection: the server
// answered the token handshake with HTTP 403, or accepted it but returned no
// token.
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

// PoolCopilotError implements the PoolCopilotError interface.
func (e *InvalidKeyError) PoolCopilotError() {}

// RateLimitError is returned when the cached token limit reports the
// credential's quota as exhausted. It is raised before any HTTP call.
type RateLimitError struct{}

func (e *RateLimitError) Error() string {
	return ErrRateLimited.Error()
}

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// PoolCopilotError implements the PoolCopilotError interface.
func (e *RateLimitError) PoolCopilotError() {}

// ProtocolError represents a contract violation by the server, such as a
// 2xx response whose body is not JSON. ContentType and Body carry the
// offending response for diagnostics.
type ProtocolError struct {
	ContentType string
	Body        string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected content type response from the PoolCopilot API: %q", e.ContentType)
}

// PoolCopilotError implements the PoolCopilotError interface.
func (e *ProtocolError) PoolCopilotError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var connErr *api.ConnectionError
	if errors.As(err, &connErr) {
		return &ConnectionError{
			Err:        connErr.Err,
			URL:        connErr.URL,
			StatusCode: connErr.StatusCode,
		}
	}

	var keyErr *api.InvalidKeyError
	if errors.As(err, &keyErr) {
		return &InvalidKeyError{Message: keyErr.Message}
	}

	var rateErr *api.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{}
	}

	var protoErr *api.ProtocolError
	if errors.As(err, &protoErr) {
		return &ProtocolError{
			ContentType: protoErr.ContentType,
			Body:        protoErr.Body,
		}
	}

	return err
}
