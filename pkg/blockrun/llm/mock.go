package llm

import (
	"context"
	"sync"
)

// Mock is a scripted Client for tests. It records every request and
// returns the configured response or error.
type Mock struct {
	mu sync.Mutex

	// Response is returned by Complete when Err is nil.
	Response string

	// Err, when set, is returned by Complete.
	Err error

	// Calls records every request received, in order.
	Calls []Request
}

// Complete implements Client.
func (m *Mock) Complete(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// CallCount returns the number of Complete calls received.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
