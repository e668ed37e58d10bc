package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// authenticate ensures a valid session token is cached, exchanging the API
// key for a fresh one when the cached token is absent or past its expiry.
//
// Concurrent callers that all observe an expired token are collapsed into a
// single token request; the losers share the winner's result.
func (c *Client) authenticate(ctx context.Context) error {
	c.mu.Lock()
	valid := c.token.valid(time.Now())
	c.mu.Unlock()
	if valid {
		return nil
	}

	_, err, _ := c.authGroup.Do("token", func() (any, error) {
		return nil, c.fetchToken(ctx)
	})
	return err
}

// fetchToken performs the token handshake. It runs at most once at a time,
// guarded by the caller's singleflight group.
func (c *Client) fetchToken(ctx context.Context) error {
	// Re-check under the group: a caller that lost the race may enter
	// after the winner already refreshed the token.
	c.mu.Lock()
	if c.token.valid(time.Now()) {
		c.mu.Unlock()
		return nil
	}
	c.token.reset()
	c.mu.Unlock()

	sess := c.session()
	tokenURL := c.buildURL("token")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("APIKEY", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &ConnectionError{Err: err, URL: tokenURL}
	}
	req.Header = c.headers()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sess.Do(req)
	if err != nil {
		return classifyTransportError(err, tokenURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.log.Debug().Msg("token request rejected")
		return &InvalidKeyError{}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ConnectionError{URL: tokenURL, StatusCode: resp.StatusCode}
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return &ConnectionError{Err: err, URL: tokenURL}
	}

	token, _ := data["token"].(string)
	if token == "" {
		return &InvalidKeyError{}
	}

	c.mu.Lock()
	c.token.store(token)
	// Token metadata (limit, expiry, device id) is not parsed here. The
	// API only refreshes that state through the api_token envelope of
	// subsequent requests, and the handshake response has not been
	// observed to carry usable values.
	c.mu.Unlock()

	c.log.Debug().Msg("authenticated with token endpoint")
	return nil
}
