package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAuthenticate_Forbidden(t *testing.T) {
	mux := http.NewServeMux()
	var apiCalls int64
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&apiCalls, 1)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestClient(t, server)

	_, err := client.Status(context.Background())
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
	if errors.Is(err, ErrConnection) {
		t.Error("403 from the token endpoint must not match ErrConnection")
	}
	if atomic.LoadInt64(&apiCalls) != 0 {
		t.Errorf("api calls = %d, want 0 after failed authentication", atomic.LoadInt64(&apiCalls))
	}
}

func TestAuthenticate_TokenEndpointHTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestClient(t, server)

	_, err := client.Status(context.Background())
	if !errors.Is(err, ErrConnection) {
		t.Errorf("error = %v, want ErrConnection", err)
	}
}

func TestAuthenticate_MissingTokenField(t *testing.T) {
	mux := http.NewServeMux()
	var apiCalls int64
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"message": "hello"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&apiCalls, 1)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestClient(t, server)

	_, err := client.Status(context.Background())
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("error = %v, want ErrInvalidKey", err)
	}
	if atomic.LoadInt64(&apiCalls) != 0 {
		t.Errorf("api calls = %d, want 0 when handshake yields no token", atomic.LoadInt64(&apiCalls))
	}
	if client.TokenValid() {
		t.Error("client must remain unauthenticated after a tokenless handshake")
	}
}

func TestAuthenticate_Timeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(t, w, map[string]any{"token": "slow"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Status(context.Background())
	if !errors.Is(err, ErrConnection) {
		t.Errorf("error = %v, want ErrConnection for token timeout", err)
	}
}

func TestAuthenticate_ValidTokenIsNoop(t *testing.T) {
	server, tokenCalls, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, envelope(nil))
	})
	client := newTestClient(t, server)

	client.mu.Lock()
	client.token.store("cached")
	client.token.expire = time.Now().Add(time.Hour)
	client.mu.Unlock()

	if err := client.authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate() error = %v", err)
	}
	if atomic.LoadInt64(tokenCalls) != 0 {
		t.Errorf("token calls = %d, want 0 with a valid cached token", atomic.LoadInt64(tokenCalls))
	}
}

func TestAuthenticate_ClearsStateBeforeHandshake(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestClient(t, server)

	limit := int64(3)
	client.mu.Lock()
	client.token.store("expired")
	client.token.expire = time.Now().Add(-time.Minute)
	client.token.limit = &limit
	client.mu.Unlock()

	_ = client.authenticate(context.Background())

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.token.token != "" {
		t.Error("expired token not cleared before re-authentication")
	}
	if client.token.limit != nil {
		t.Error("limit not cleared before re-authentication")
	}
}

func TestAuthenticate_CollapsesConcurrentCallers(t *testing.T) {
	const callers = 5

	gate := make(chan struct{})
	mux := http.NewServeMux()
	var tokenCalls int64
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&tokenCalls, 1)
		<-gate
		writeJSON(t, w, map[string]any{"token": "shared"})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, envelope(nil))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client := newTestClient(t, server)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Status(context.Background())
		}(i)
	}

	// Give every caller time to reach the authentication gate, then let
	// the single in-flight handshake finish.
	time.Sleep(100 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d error = %v", i, err)
		}
	}
	if atomic.LoadInt64(&tokenCalls) != 1 {
		t.Errorf("token calls = %d, want 1 for concurrent callers", atomic.LoadInt64(&tokenCalls))
	}
}
