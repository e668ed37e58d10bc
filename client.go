package poolcopilot

import (
	"context"

	"github.com/poolcopilot/client-go/internal/api"
	"github.com/rs/zerolog"
)

// Client is the main PoolCopilot client. It wraps the vendor's REST API:
// authentication with an API key, a cached short-lived session token, and
// the monitoring and command endpoints of the pool-equipment controller.
//
// Response payloads are returned as decoded JSON objects; the SDK treats
// the equipment state they describe as opaque.
//
// Client is safe for concurrent use.
type Client struct {
	apiClient *api.Client
}

// New creates a new PoolCopilot client with the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &clientConfig{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := api.NewClient(api.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient}, nil
}

// Status returns the current PoolCop status.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	data, err := c.apiClient.Status(ctx)
	return data, wrapError(err)
}

// AlarmHistory returns the alarm history starting at offset.
func (c *Client) AlarmHistory(ctx context.Context, offset int) (map[string]any, error) {
	data, err := c.apiClient.AlarmHistory(ctx, offset)
	return data, wrapError(err)
}

// CommandHistory returns the command history starting at offset.
func (c *Client) CommandHistory(ctx context.Context, offset int) (map[string]any, error) {
	data, err := c.apiClient.CommandHistory(ctx, offset)
	return data, wrapError(err)
}

// TogglePump toggles the pump on or off.
func (c *Client) TogglePump(ctx context.Context) (map[string]any, error) {
	data, err := c.apiClient.TogglePump(ctx)
	return data, wrapError(err)
}

// SetPumpSpeed sets the pump to the given speed. Valid speeds are 1, 2,
// and 3; anything else returns ErrInvalidPumpSpeed without touching the
// network.
func (c *Client) SetPumpSpeed(ctx context.Context, speed int) (map[string]any, error) {
	if speed < 1 || speed > 3 {
		return nil, ErrInvalidPumpSpeed
	}
	data, err := c.apiClient.SetPumpSpeed(ctx, speed)
	return data, wrapError(err)
}

// ToggleAux toggles the given auxiliary circuit on or off.
func (c *Client) ToggleAux(ctx context.Context, auxID int) (map[string]any, error) {
	data, err := c.apiClient.ToggleAux(ctx, auxID)
	return data, wrapError(err)
}

// ClearAlarm clears the active alarm.
func (c *Client) ClearAlarm(ctx context.Context) (map[string]any, error) {
	data, err := c.apiClient.ClearAlarm(ctx)
	return data, wrapError(err)
}

// SetValvePosition moves the water valve to the given position.
func (c *Client) SetValvePosition(ctx context.Context, position int) (map[string]any, error) {
	data, err := c.apiClient.SetValvePosition(ctx, position)
	return data, wrapError(err)
}

// PoolCopID returns the device identifier the API most recently echoed, or
// zero before any response has carried one.
func (c *Client) PoolCopID() int64 {
	return c.apiClient.PoolCopID()
}

// TokenValid reports whether a non-expired session token is cached.
func (c *Client) TokenValid() bool {
	return c.apiClient.TokenValid()
}

// RateLimitRemaining returns the server-communicated quota counter for the
// current token. The second return is false until the server has reported
// one.
func (c *Client) RateLimitRemaining() (int64, bool) {
	return c.apiClient.RateLimitRemaining()
}

// Close releases the HTTP session if the client created it internally.
// Closing twice, or closing a client built with WithHTTPClient, is a no-op.
// The client remains usable after Close; the next request lazily creates a
// fresh session.
func (c *Client) Close() error {
	c.apiClient.Close()
	return nil
}
