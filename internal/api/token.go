package api

import (
	"encoding/json"
	"time"
)

// tokenMeta is the nested "api_token" object the API attaches to response
// envelopes. Every field may be absent.
type tokenMeta struct {
	MaxLimit  *int64 `json:"max_limit"`
	Expire    *int64 `json:"expire"`
	PoolCopID *int64 `json:"poolcop_id"`
}

// tokenState holds the cached session token and the metadata the server
// reports alongside it. All access goes through Client.mu; the two mutating
// methods below are the only places the fields change together.
type tokenState struct {
	token     string
	expire    time.Time
	limit     *int64 // nil until the server reports one; zero means exhausted
	poolcopID int64
}

// valid reports whether a token is cached and its expiry is still ahead of
// now. Header construction deliberately does not consult this.
func (t *tokenState) valid(now time.Time) bool {
	return t.token != "" && t.expire.After(now)
}

// reset clears the token and limit ahead of a re-authentication attempt.
// The device identifier is preserved.
func (t *tokenState) reset() {
	t.token = ""
	t.limit = nil
}

// store records a freshly issued token. Token metadata is intentionally not
// parsed on the authenticate path; see Client.authenticate.
func (t *tokenState) store(token string) {
	t.token = token
}

// update applies the "api_token" metadata from a response envelope. Limit
// and expiry fall back to zero when absent; the device identifier keeps its
// previous value.
func (t *tokenState) update(meta tokenMeta) {
	var limit int64
	if meta.MaxLimit != nil {
		limit = *meta.MaxLimit
	}
	t.limit = &limit

	var expire int64
	if meta.Expire != nil {
		expire = *meta.Expire
	}
	t.expire = time.Unix(expire, 0)

	if meta.PoolCopID != nil {
		t.poolcopID = *meta.PoolCopID
	}
}

// exhausted reports whether the server-communicated quota is known to be
// spent. An unknown limit does not block requests.
func (t *tokenState) exhausted() bool {
	return t.limit != nil && *t.limit == 0
}

// metaFromBody extracts the nested "api_token" object from a decoded
// response body. A missing or malformed object yields the zero value, which
// update interprets conservatively.
func metaFromBody(body map[string]any) tokenMeta {
	var meta tokenMeta
	raw, ok := body["api_token"]
	if !ok {
		return meta
	}
	// Round-trip through JSON so the loosely typed object decodes into
	// the struct with absent fields left nil.
	data, err := json.Marshal(raw)
	if err != nil {
		return meta
	}
	_ = json.Unmarshal(data, &meta)
	return meta
}
