package modes

import (
	"context"
	"log/slog"

	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/vision"
)

// Analyze sends a captured frame to the vision backend for a product
// description. Its Process performs the one long-latency call the main
// loop tolerates, bounded to once per Start.
type Analyze struct {
	queue    Announcer
	analyzer vision.Analyzer
	prompt   string
	logger   *slog.Logger

	frame   detect.Frame
	loading bool
}

// NewAnalyze creates the handler. An empty prompt uses the default
// product-analysis prompt.
func NewAnalyze(queue Announcer, analyzer vision.Analyzer, prompt string) *Analyze {
	if prompt == "" {
		prompt = vision.DefaultPrompt
	}
	return &Analyze{
		queue:    queue,
		analyzer: analyzer,
		prompt:   prompt,
		logger:   slog.Default().With("component", "modes.analyze"),
	}
}

// Start captures a deep copy of the frame for analysis. Returns false when
// the backend is unavailable; the caller must not enter details mode then.
func (h *Analyze) Start(frame detect.Frame) bool {
	if h.analyzer == nil || !h.analyzer.Available() {
		h.queue.SayNow("Vision analysis is not configured.")
		return false
	}
	h.frame = frame.Clone()
	h.loading = true
	h.queue.SayNow("Analyzing product details. Please wait.")
	return true
}

// Process issues the analysis call exactly once, clears the loading flag,
// and announces the answer or a failure message. Always completes.
func (h *Analyze) Process(_ []detect.Detection, _ detect.Frame) bool {
	if !h.loading {
		return true
	}
	h.loading = false

	answer, err := h.analyzer.Identify(context.Background(), h.frame.JPEG, h.prompt)
	if err != nil || answer == "" {
		h.logger.Warn("analysis failed", "error", err)
		h.queue.SayNow("Analysis failed. Please try again.")
		return true
	}
	h.queue.SayNow(answer)
	return true
}

// Reset drops the captured frame and loading flag.
func (h *Analyze) Reset() {
	h.frame = detect.Frame{}
	h.loading = false
}

// Loading reports whether the analysis call is still pending. The HUD uses
// this to render a spinner on the frame that issues the call.
func (h *Analyze) Loading() bool { return h.loading }

var _ handler = (*Analyze)(nil)
