package poolcopilot

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every network operation unless overridden with
// WithTimeout.
const DefaultTimeout = 10 * time.Second

// clientConfig holds configuration for the client.
type clientConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
	baseURL    string // test override; the production host is fixed
}

// Option configures the client.
type Option func(*clientConfig)

// WithTimeout sets the per-request timeout. Expiry of this timeout is
// surfaced as a ConnectionError. Default: 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithHTTPClient supplies an external HTTP client. The client is borrowed:
// Close will not release it. Without this option an HTTP client is created
// lazily on first use and owned until Close.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger for debug-level request and authentication
// events. Default: a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// withBaseURL overrides the fixed production endpoint. The API offers no
// user-facing host override; this exists for tests against local servers.
func withBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}
