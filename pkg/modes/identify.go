package modes

import (
	"fmt"

	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
	"github.com/spotter-ai/go-spotter/pkg/ocr"
)

// IdentifyConfig tunes the identify handler.
type IdentifyConfig struct {
	AvoidClass string
	Mirror     bool
	// WaitFrames is how many processed frames to wait before describing,
	// giving the user time to hold the camera still (default 40).
	WaitFrames int
}

// Identify answers "what is this": it waits a fixed number of frames, then
// describes the most prominent object and any text on it. Self-terminating.
type Identify struct {
	queue  Announcer
	reader ocr.Reader
	cfg    IdentifyConfig

	frames int
}

// NewIdentify creates the handler.
func NewIdentify(queue Announcer, reader ocr.Reader, cfg IdentifyConfig) *Identify {
	if cfg.AvoidClass == "" {
		cfg.AvoidClass = "person"
	}
	if cfg.WaitFrames <= 0 {
		cfg.WaitFrames = 40
	}
	return &Identify{queue: queue, reader: reader, cfg: cfg}
}

// Start resets the wait counter and asks the user to hold still.
func (h *Identify) Start() {
	h.Reset()
	h.queue.SayNow("Analyzing object. Please hold still.")
}

// Process counts frames until the wait threshold, then describes the
// largest non-avoid detection. Returns true once the description (or
// "Nothing detected.") has been announced.
func (h *Identify) Process(detections []detect.Detection, frame detect.Frame) bool {
	h.frames++
	if h.frames < h.cfg.WaitFrames {
		return false
	}

	if len(detections) == 0 {
		h.queue.SayNow("Nothing detected.")
		return true
	}

	enriched := h.reader.Enrich(frame, detections)
	best, ok := detect.LargestExcluding(enriched, h.cfg.AvoidClass)
	if !ok {
		h.queue.SayNow("Nothing detected.")
		return true
	}

	zone := geometry.ClassifyPosition(best.Box, frame.Width, frame.Height, h.cfg.Mirror)
	msg := fmt.Sprintf("I see a %s on your %s.", best.Class, zone)
	if best.Text != "" {
		msg += fmt.Sprintf(" It says: %s", best.Text)
	}
	h.queue.SayNow(msg)
	return true
}

// Reset clears the wait counter.
func (h *Identify) Reset() { h.frames = 0 }

var _ handler = (*Identify)(nil)
