package modes

import (
	"fmt"
	"log/slog"

	"github.com/spotter-ai/go-spotter/pkg/depth"
	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/direction"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
	"github.com/spotter-ai/go-spotter/pkg/match"
	"github.com/spotter-ai/go-spotter/pkg/ocr"
	"github.com/spotter-ai/go-spotter/pkg/tracker"
)

// FindConfig tunes the find handler.
type FindConfig struct {
	// AvoidClass is excluded from candidate selection (default "person").
	AvoidClass string
	// TopK bounds candidates considered for matching per frame.
	TopK int
	// Mirror swaps left/right zones for a mirrored camera feed.
	Mirror bool
	// AnnounceGuidance re-announces the locked target's direction each
	// frame through the throttled path. Off by default: after the lock
	// announcement the handler tracks silently.
	AnnounceGuidance bool
}

// Find searches for a queried object, locks onto the first match, and
// tracks it across frames. It never self-terminates; only stop or quit
// leaves find mode.
type Find struct {
	queue   Announcer
	tracker *tracker.Tracker
	depther depth.Estimator
	reader  ocr.Reader
	cfg     FindConfig
	logger  *slog.Logger

	query     string
	locked    bool
	target    detect.Detection
	direction string
}

// NewFind creates the handler. depther may be a depth.Noop; the direction
// engine then falls back to box-area distance. reader supplies on-object
// text for candidates whose class label does not match the query.
func NewFind(queue Announcer, tr *tracker.Tracker, depther depth.Estimator, reader ocr.Reader, cfg FindConfig) *Find {
	if cfg.AvoidClass == "" {
		cfg.AvoidClass = "person"
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 2
	}
	return &Find{
		queue:   queue,
		tracker: tr,
		depther: depther,
		reader:  reader,
		cfg:     cfg,
		logger:  slog.Default().With("component", "modes.find"),
	}
}

// Start begins a search. The lock state is cleared even when the handler
// is restarted with the same query.
func (f *Find) Start(query string) {
	f.Reset()
	f.query = query
	f.queue.SayNow(fmt.Sprintf("Looking for %s.", query))
}

// Process matches candidates until a lock is acquired, then tracks the
// locked box. Always returns false: find runs until stopped.
func (f *Find) Process(detections []detect.Detection, frame detect.Frame) bool {
	if f.locked {
		f.track(detections, frame)
		return false
	}

	candidates := detect.TopCandidates(detections, f.cfg.AvoidClass, f.cfg.TopK)
	if len(candidates) == 0 {
		return false
	}

	idx := f.matchCandidate(candidates, frame)
	if idx == match.NotFound {
		return false
	}

	f.target = candidates[idx]
	f.locked = true
	zone := geometry.ClassifyPosition(f.target.Box, frame.Width, frame.Height, f.cfg.Mirror)
	f.queue.SayNow(fmt.Sprintf("Found %s on your %s!", f.query, zone))
	return false
}

// matchCandidate tries class labels first, then OCR text on the same
// candidates. Detections off the detector carry no text, so the fallback
// reads each candidate's region; the cost is bounded by TopK and only
// paid on unlocked frames whose class match failed.
func (f *Find) matchCandidate(candidates []detect.Detection, frame detect.Frame) int {
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Class
	}
	if idx := match.FindBestMatch(labels, f.query); idx != match.NotFound {
		return idx
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		text := c.Text
		if text == "" && f.reader != nil {
			read, err := f.reader.ReadText(frame, c.Box)
			if err != nil {
				f.logger.Debug("candidate text read failed", "class", c.Class, "error", err)
			} else {
				text = read
			}
		}
		texts[i] = text
	}
	return match.FindBestMatch(texts, f.query)
}

func (f *Find) track(detections []detect.Detection, frame detect.Frame) {
	f.target = f.tracker.Update(detections, f.target)

	d, hasDepth := f.depther.BoxDepth(frame, f.target.Box)
	f.direction = direction.Compute(f.target.Box, frame.Width, frame.Height, d, hasDepth)
	if f.cfg.AnnounceGuidance {
		f.queue.Say(f.direction)
	}
}

// Reset clears the query, lock, and tracked box.
func (f *Find) Reset() {
	f.query = ""
	f.locked = false
	f.target = detect.Detection{}
	f.direction = ""
}

// Query returns the active search term.
func (f *Find) Query() string { return f.query }

// Locked reports whether a target has been acquired.
func (f *Find) Locked() bool { return f.locked }

// Target returns the tracked box; ok is false before a lock.
func (f *Find) Target() (detect.Detection, bool) { return f.target, f.locked }

// Direction returns the latest guidance phrase for the locked target.
func (f *Find) Direction() string { return f.direction }

var _ handler = (*Find)(nil)
