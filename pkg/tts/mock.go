package tts

import (
	"context"
	"sync"
)

// MockProvider is a test double for Provider.
type MockProvider struct {
	SynthesizeFunc func(ctx context.Context, text string) (*AudioResult, error)
	HealthFunc     func(ctx context.Context) error

	mu    sync.Mutex
	texts []string
}

// Synthesize records the text and delegates to SynthesizeFunc if set,
// otherwise returns a small fake result with paced latency.
func (m *MockProvider) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return &AudioResult{
		Audio:     []byte("fake-audio"),
		MIME:      "audio/mpeg",
		CharCount: len(text),
		LatencyMs: estimateLatency(len(text)).Milliseconds(),
	}, nil
}

// Health delegates to HealthFunc if set, otherwise reports healthy.
func (m *MockProvider) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *MockProvider) Close() error { return nil }

// Texts returns the texts passed to Synthesize, in order.
func (m *MockProvider) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.texts))
	copy(out, m.texts)
	return out
}

var _ Provider = (*MockProvider)(nil)
