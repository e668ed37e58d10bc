package poolcopilot

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is the status polling interval used when none is
// given.
const DefaultPollInterval = 30 * time.Second

// Subscription represents an active subscription that can be unsubscribed.
type Subscription interface {
	// Unsubscribe stops the subscription and releases resources.
	Unsubscribe()
}

// StatusCallback is called with each freshly polled status envelope.
type StatusCallback func(status map[string]any)

// ErrorCallback is called when a status poll fails. The error is from the
// client's taxonomy, so errors.Is checks apply.
type ErrorCallback func(err error)

// StatusMonitor polls the PoolCop status endpoint on a fixed interval and
// fans each result out to registered callbacks. It provides an
// event-emitter like pattern for watching equipment state.
//
// Polls count against the token's rate limit like any other request; pick
// an interval accordingly.
type StatusMonitor struct {
	client   *Client
	interval time.Duration

	mu        sync.RWMutex
	callbacks []StatusCallback
	onError   ErrorCallback
	cancel    context.CancelFunc
	started   bool
}

// internalSubscription implements the Subscription interface.
type internalSubscription struct {
	cancel func()
}

func (s *internalSubscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// MonitorStatus creates a status monitor for this client. Polling starts
// when the first callback is registered with OnStatus. An interval of zero
// selects DefaultPollInterval.
func (c *Client) MonitorStatus(interval time.Duration) *StatusMonitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusMonitor{
		client:   c,
		interval: interval,
	}
}

// OnStatus registers a callback to be called with each polled status.
// Returns a Subscription that removes this specific callback.
func (m *StatusMonitor) OnStatus(callback StatusCallback) Subscription {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, callback)
	callbackIndex := len(m.callbacks) - 1
	m.mu.Unlock()

	m.startPolling()

	return &internalSubscription{
		cancel: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// Mark this callback as nil (don't remove to preserve indices)
			if callbackIndex < len(m.callbacks) {
				m.callbacks[callbackIndex] = nil
			}
		},
	}
}

// OnError registers a callback for poll failures. Without one, failures are
// dropped; the next tick polls again regardless.
func (m *StatusMonitor) OnError(callback ErrorCallback) {
	m.mu.Lock()
	m.onError = callback
	m.mu.Unlock()
}

// Unsubscribe stops polling and removes all callbacks.
func (m *StatusMonitor) Unsubscribe() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.callbacks = nil
	m.started = false
}

// startPolling begins the poll loop if not already started.
func (m *StatusMonitor) startPolling() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	go m.pollLoop(ctx)
}

func (m *StatusMonitor) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// First poll fires immediately rather than one interval in.
	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *StatusMonitor) poll(ctx context.Context) {
	status, err := m.client.Status(ctx)
	if err != nil {
		m.mu.RLock()
		onError := m.onError
		m.mu.RUnlock()
		if onError != nil {
			onError(err)
		}
		return
	}
	m.emit(status)
}

// emit calls all registered callbacks with the polled status.
func (m *StatusMonitor) emit(status map[string]any) {
	m.mu.RLock()
	callbacks := make([]StatusCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.RUnlock()

	// Low volume expected; spawning per-poll is fine.
	for _, callback := range callbacks {
		if callback != nil {
			go callback(status)
		}
	}
}
