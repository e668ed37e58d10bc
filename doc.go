// Package poolcopilot provides a Go client SDK for the PoolCopilot API,
// the vendor cloud service for monitoring and controlling PoolCop
// pool-equipment controllers.
//
// The client authenticates with an API key, caches the short-lived session
// token the server issues in exchange, and exposes the status, history, and
// command endpoints. Transport and HTTP failures are mapped onto a small
// error taxonomy so callers can branch on error kind rather than message
// text.
//
// Basic usage:
//
//	client, err := poolcopilot.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	status, err := client.Status(ctx)
//	if errors.Is(err, poolcopilot.ErrRateLimited) {
//	    // Token quota exhausted; back off until it refreshes.
//	}
package poolcopilot
