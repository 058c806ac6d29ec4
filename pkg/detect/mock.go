package detect

import "sync"

// Mock implements Detector for testing.
// DetectFunc can be customized; if nil, Detect returns no detections.
type Mock struct {
	DetectFunc func(frame Frame) ([]Detection, error)

	mu    sync.Mutex
	calls int
}

// Detect invokes DetectFunc and records the call.
func (m *Mock) Detect(frame Frame) ([]Detection, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(frame)
	}
	return nil, nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Verify Mock implements Detector at compile time.
var _ Detector = (*Mock)(nil)
