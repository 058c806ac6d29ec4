// Package tracker maintains single-target continuity across frames using
// overlap matching. No appearance model, no motion prediction: each frame
// the detection overlapping the previous target best wins, and a frame
// with no good match keeps the previous box (bridges momentary occlusion
// or motion blur).
package tracker

import (
	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// MinOverlap is the minimum IoU for a detection to count as the same target.
const MinOverlap = 0.15

// Tracker matches the previous target against fresh detections.
// It holds no per-target state; the caller owns the previous box across
// calls, which lets each mode handler manage its own target lifecycle.
type Tracker struct {
	minOverlap float64
}

// New creates a tracker with the default overlap floor.
func New() *Tracker {
	return &Tracker{minOverlap: MinOverlap}
}

// Update returns the detection that best overlaps previous, or previous
// unchanged when no detection clears the overlap floor.
func (t *Tracker) Update(detections []detect.Detection, previous detect.Detection) detect.Detection {
	best := previous
	bestOverlap := t.minOverlap // must be beaten to count as a match

	for _, d := range detections {
		if score := geometry.OverlapRatio(previous.Box, d.Box); score > bestOverlap {
			bestOverlap = score
			best = d
		}
	}
	return best
}
