package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is the fixed production endpoint. The API offers no
	// user-facing host override.
	DefaultBaseURL = "https://poolcopilot.com/api/v1"

	// DefaultTimeout bounds every network operation.
	DefaultTimeout = 10 * time.Second

	// Version of the client, reported in the User-Agent header.
	Version = "1.0.0"

	userAgent = "go-poolcop/" + Version
)

// Config configures the API client.
type Config struct {
	// APIKey is the long-lived credential exchanged for session tokens.
	APIKey string
	// BaseURL overrides the production endpoint. Used by tests.
	BaseURL string
	// Timeout bounds each network operation. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient, when set, is borrowed from the caller and never closed
	// by this client. When nil a client is created lazily on first use
	// and owned until Close.
	HTTPClient *http.Client
	// Logger receives debug-level request and auth events.
	Logger zerolog.Logger
}

// Client is the HTTP client for the PoolCopilot API. It owns the session
// token lifecycle: tokens are acquired lazily, tracked against their expiry,
// and refreshed from the metadata each response envelope carries.
//
// Client is safe for concurrent use. Concurrent callers that observe an
// expired token collapse into a single token request.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	log     zerolog.Logger

	mu         sync.Mutex
	httpClient *http.Client
	ownSession bool
	token      tokenState

	authGroup singleflight.Group
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		log:        cfg.Logger,
		httpClient: cfg.HTTPClient,
		ownSession: false,
	}, nil
}

// session returns the HTTP client, creating an owned one on first use.
func (c *Client) session() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
		c.ownSession = true
	}
	return c.httpClient
}

// buildURL joins the fixed base with a request URI such as "status" or
// "command/pump/2".
func (c *Client) buildURL(uri string) string {
	return c.baseURL + "/" + uri
}

// headers returns the headers sent on every request. A cached token is sent
// even if its expiry has passed; expiry is only consulted when deciding
// whether to re-authenticate.
func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", userAgent)

	c.mu.Lock()
	if c.token.token != "" {
		h.Set("PoolCop-Token", c.token.token)
	}
	c.mu.Unlock()

	return h
}

// Request performs an authenticated call against the API and returns the
// decoded response envelope.
//
// The pipeline: ensure a session exists, ensure a valid token (possibly
// re-authenticating), refuse outright when the cached quota is exhausted,
// perform the HTTP call under the client timeout, insist on a JSON response,
// and refresh the cached token metadata from the envelope.
func (c *Client) Request(ctx context.Context, method, uri string) (map[string]any, error) {
	sess := c.session()

	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	exhausted := c.token.exhausted()
	c.mu.Unlock()
	if exhausted {
		return nil, &RateLimitError{}
	}

	url := c.buildURL(uri)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, &ConnectionError{Err: err, URL: url}
	}
	req.Header = c.headers()

	start := time.Now()
	resp, err := sess.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, url)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("poolcopilot request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &ConnectionError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		text, _ := io.ReadAll(resp.Body)
		return nil, &ProtocolError{ContentType: contentType, Body: string(text)}
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ProtocolError{ContentType: contentType, Body: err.Error()}
	}

	c.mu.Lock()
	c.token.update(metaFromBody(body))
	c.mu.Unlock()

	return body, nil
}

// classifyTransportError maps a transport failure onto the error taxonomy.
// Timeouts and everything below HTTP become connection errors.
func classifyTransportError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{
			Err: fmt.Errorf("timeout occurred while connecting to the API: %w", err),
			URL: url,
		}
	}
	return &ConnectionError{Err: err, URL: url}
}

// PoolCopID returns the device identifier most recently echoed by the API,
// or zero when none has been seen yet.
func (c *Client) PoolCopID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token.poolcopID
}

// TokenValid reports whether a non-expired token is currently cached.
func (c *Client) TokenValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token.valid(time.Now())
}

// RateLimitRemaining returns the server-communicated quota counter. The
// second return is false until a response envelope has reported one.
func (c *Client) RateLimitRemaining() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token.limit == nil {
		return 0, false
	}
	return *c.token.limit, true
}

// Close releases the HTTP session if this client created it. Closing a
// client twice, or one constructed with a borrowed session, is a no-op.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient != nil && c.ownSession {
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
		c.ownSession = false
	}
}
