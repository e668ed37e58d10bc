package api

import (
	"testing"
	"time"
)

func TestTokenState_Valid(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		state tokenState
		want  bool
	}{
		{"empty", tokenState{}, false},
		{"token without expiry", tokenState{token: "abc"}, false},
		{"expired", tokenState{token: "abc", expire: now.Add(-time.Second)}, false},
		{"valid", tokenState{token: "abc", expire: now.Add(time.Minute)}, true},
		{"expiry without token", tokenState{expire: now.Add(time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.valid(now); got != tt.want {
				t.Errorf("valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenState_ResetPreservesDeviceID(t *testing.T) {
	limit := int64(5)
	state := tokenState{
		token:     "abc",
		expire:    time.Unix(100, 0),
		limit:     &limit,
		poolcopID: 42,
	}

	state.reset()

	if state.token != "" {
		t.Error("token not cleared")
	}
	if state.limit != nil {
		t.Error("limit not cleared")
	}
	if state.poolcopID != 42 {
		t.Errorf("poolcopID = %d, want 42 (preserved)", state.poolcopID)
	}
}

func TestTokenState_Update(t *testing.T) {
	i64 := func(v int64) *int64 { return &v }

	tests := []struct {
		name       string
		meta       tokenMeta
		wantLimit  int64
		wantExpire int64
		wantID     int64
	}{
		{
			name:       "all fields",
			meta:       tokenMeta{MaxLimit: i64(5), Expire: i64(9999999999), PoolCopID: i64(42)},
			wantLimit:  5,
			wantExpire: 9999999999,
			wantID:     42,
		},
		{
			name:       "absent limit and expiry fall back to zero",
			meta:       tokenMeta{PoolCopID: i64(7)},
			wantLimit:  0,
			wantExpire: 0,
			wantID:     7,
		},
		{
			name:       "absent device id keeps previous value",
			meta:       tokenMeta{MaxLimit: i64(3), Expire: i64(100)},
			wantLimit:  3,
			wantExpire: 100,
			wantID:     42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tokenState{poolcopID: 42}
			state.update(tt.meta)

			if state.limit == nil || *state.limit != tt.wantLimit {
				t.Errorf("limit = %v, want %d", state.limit, tt.wantLimit)
			}
			if !state.expire.Equal(time.Unix(tt.wantExpire, 0)) {
				t.Errorf("expire = %v, want %v", state.expire, time.Unix(tt.wantExpire, 0))
			}
			if state.poolcopID != tt.wantID {
				t.Errorf("poolcopID = %d, want %d", state.poolcopID, tt.wantID)
			}
		})
	}
}

func TestTokenState_Exhausted(t *testing.T) {
	zero, five := int64(0), int64(5)
	tests := []struct {
		name  string
		limit *int64
		want  bool
	}{
		{"unknown limit", nil, false},
		{"zero limit", &zero, true},
		{"positive limit", &five, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tokenState{limit: tt.limit}
			if got := state.exhausted(); got != tt.want {
				t.Errorf("exhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetaFromBody_Defaults(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing api_token", map[string]any{"status": "ok"}},
		{"malformed api_token", map[string]any{"api_token": "not an object"}},
		{"empty api_token", map[string]any{"api_token": map[string]any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := metaFromBody(tt.body)
			if meta.MaxLimit != nil || meta.Expire != nil || meta.PoolCopID != nil {
				t.Errorf("metaFromBody() = %+v, want zero value", meta)
			}
		})
	}
}

func TestMetaFromBody_ParsesFields(t *testing.T) {
	// Decoded JSON envelopes carry numbers as float64.
	meta := metaFromBody(map[string]any{
		"api_token": map[string]any{
			"max_limit":  float64(5),
			"expire":     float64(9999999999),
			"poolcop_id": float64(42),
		},
	})

	if meta.MaxLimit == nil || *meta.MaxLimit != 5 {
		t.Errorf("MaxLimit = %v, want 5", meta.MaxLimit)
	}
	if meta.Expire == nil || *meta.Expire != 9999999999 {
		t.Errorf("Expire = %v, want 9999999999", meta.Expire)
	}
	if meta.PoolCopID == nil || *meta.PoolCopID != 42 {
		t.Errorf("PoolCopID = %v, want 42", meta.PoolCopID)
	}
}
