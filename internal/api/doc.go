// Package api provides HTTP client functionality for communicating with the
// PoolCopilot API. It handles the session token lifecycle, request/response
// serialization, and the mapping of transport failures onto the error
// taxonomy.
//
// # Authentication
//
// The API key is exchanged for a short-lived token via POST /api/v1/token.
// The token is cached together with the expiry, quota counter, and device
// identifier the server reports in the api_token envelope of subsequent
// responses. The client re-authenticates lazily whenever the cached token is
// absent or expired.
//
// # Error Handling
//
// The package defines sentinel errors for the error taxonomy:
//
//   - [ErrInvalidKey]: the API key was rejected (403) or no token was issued.
//   - [ErrRateLimited]: the cached quota counter is exhausted.
//   - [ErrConnection]: network failure, HTTP error status, or timeout.
//
// Use errors.Is to check for specific error kinds, or errors.As with
// [ConnectionError], [InvalidKeyError], [RateLimitError], and
// [ProtocolError] to reach diagnostic fields.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Concurrent callers that
// observe an expired token collapse into a single token request.
package api
