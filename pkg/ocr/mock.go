package ocr

import (
	"sync"

	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// Mock implements Reader for testing.
type Mock struct {
	// ReadTextFunc is called by ReadText. If nil, returns "".
	ReadTextFunc func(frame detect.Frame, box geometry.Box) (string, error)

	mu    sync.Mutex
	reads int
}

// ReadText invokes ReadTextFunc and records the call.
func (m *Mock) ReadText(frame detect.Frame, box geometry.Box) (string, error) {
	m.mu.Lock()
	m.reads++
	m.mu.Unlock()

	if m.ReadTextFunc != nil {
		return m.ReadTextFunc(frame, box)
	}
	return "", nil
}

// Enrich attaches ReadText results to each detection.
func (m *Mock) Enrich(frame detect.Frame, dets []detect.Detection) []detect.Detection {
	enriched := make([]detect.Detection, len(dets))
	for i, d := range dets {
		text, _ := m.ReadText(frame, d.Box)
		d.Text = text
		if text != "" {
			d.TextConfidence = 1.0
		}
		enriched[i] = d
	}
	return enriched
}

// Reads returns how many regions were read.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Verify Mock implements Reader at compile time.
var _ Reader = (*Mock)(nil)
