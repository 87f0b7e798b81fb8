package dokuwiki

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// remoteCall records one invocation of the mock caller.
type remoteCall struct {
	method string
	params []any
}

// mockCaller is a mock implementation of the caller interface, recording
// every call and answering through CallFunc.
type mockCaller struct {
	mu sync.Mutex

	// CallFunc answers a call; a nil CallFunc answers (nil, nil).
	CallFunc func(method string, params []any) (any, error)

	// State
	calls []remoteCall
}

func (m *mockCaller) Call(_ context.Context, method string, params ...any) (any, error) {
	m.mu.Lock()
	m.calls = append(m.calls, remoteCall{method: method, params: params})
	m.mu.Unlock()

	if m.CallFunc != nil {
		return m.CallFunc(method, params)
	}
	return nil, nil
}

// callCount returns how many calls were recorded.
func (m *mockCaller) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// lastCall returns the most recent recorded call.
func (m *mockCaller) lastCall(t *testing.T) remoteCall {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		t.Fatal("no calls recorded")
	}
	return m.calls[len(m.calls)-1]
}

// newTestClient wires a client around a mock caller, skipping the login
// handshake New performs.
func newTestClient(callFunc func(method string, params []any) (any, error)) (*Client, *mockCaller) {
	rpc := &mockCaller{CallFunc: callFunc}

	cfg := DefaultConfig()
	cfg.URL = "http://wiki.example.com"
	cfg.Username = "editor"
	cfg.Password = "secret"

	return newClient(cfg, rpc, slog.Default()), rpc
}
