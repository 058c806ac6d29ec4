package modes

import (
	"fmt"
	"log/slog"

	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/ocr"
)

// ReadConfig tunes the read handler.
type ReadConfig struct {
	AvoidClass string
}

// Read speaks the text on the most prominent object. Completes on the
// first processed frame.
type Read struct {
	queue  Announcer
	reader ocr.Reader
	cfg    ReadConfig
	logger *slog.Logger
}

// NewRead creates the handler.
func NewRead(queue Announcer, reader ocr.Reader, cfg ReadConfig) *Read {
	if cfg.AvoidClass == "" {
		cfg.AvoidClass = "person"
	}
	return &Read{
		queue:  queue,
		reader: reader,
		cfg:    cfg,
		logger: slog.Default().With("component", "modes.read"),
	}
}

// Start announces that reading is about to happen.
func (h *Read) Start() {
	h.queue.SayNow("Reading.")
}

// Process reads text from the largest non-avoid box and always returns
// true. OCR failures read as no text rather than surfacing an error.
func (h *Read) Process(detections []detect.Detection, frame detect.Frame) bool {
	if len(detections) == 0 {
		h.queue.SayNow("Nothing detected.")
		return true
	}

	best, ok := detect.LargestExcluding(detections, h.cfg.AvoidClass)
	if !ok {
		h.queue.SayNow("Nothing detected.")
		return true
	}

	text, err := h.reader.ReadText(frame, best.Box)
	if err != nil {
		h.logger.Warn("read text failed", "class", best.Class, "error", err)
		text = ""
	}
	if text == "" {
		h.queue.SayNow(fmt.Sprintf("No text found on the %s.", best.Class))
	} else {
		h.queue.SayNow(fmt.Sprintf("The text reads: %s", text))
	}
	return true
}

// Reset is a no-op: Read keeps no per-entry state.
func (h *Read) Reset() {}

var _ handler = (*Read)(nil)
