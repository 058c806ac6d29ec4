package vision

import (
	"context"
	"sync"
)

// Mock implements Analyzer for testing.
type Mock struct {
	// AvailableFunc is called by Available. If nil, reports true.
	AvailableFunc func() bool

	// IdentifyFunc is called by Identify. If nil, returns a fixed answer.
	IdentifyFunc func(ctx context.Context, jpeg []byte, prompt string) (string, error)

	mu    sync.Mutex
	calls []string
}

// Available reports configured availability.
func (m *Mock) Available() bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}
	return true
}

// Name identifies the backend.
func (m *Mock) Name() string { return "mock" }

// Identify records the prompt and invokes IdentifyFunc.
func (m *Mock) Identify(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if m.IdentifyFunc != nil {
		return m.IdentifyFunc(ctx, jpeg, prompt)
	}
	return "a carton of oat milk", nil
}

// Calls returns the prompts passed to Identify.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Verify Mock implements Analyzer at compile time.
var _ Analyzer = (*Mock)(nil)
