// Package detect defines the detection data model and the object
// detector contract consumed by the mode handlers.
package detect

import (
	"sort"

	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// Detection is one detected object in a frame. Produced fresh every frame
// by the detector, optionally enriched with OCR text, and immutable once
// created.
type Detection struct {
	geometry.Box

	// Confidence is the detector score in (0,1].
	Confidence float64

	// Class is the detector's class label, e.g. "bottle".
	Class string

	// Text and TextConfidence are filled by OCR enrichment.
	Text           string
	TextConfidence float64
}

// Frame is one retained camera frame handed to the processing cycle.
type Frame struct {
	// JPEG is the encoded frame image.
	JPEG []byte

	Width  int
	Height int

	// Seq is the raw capture sequence number.
	Seq uint64
}

// Clone returns a deep copy of the frame. Analyze mode captures a clone so
// the in-flight analysis is not affected by buffer reuse in the capture loop.
func (f Frame) Clone() Frame {
	c := f
	c.JPEG = make([]byte, len(f.JPEG))
	copy(c.JPEG, f.JPEG)
	return c
}

// Detector finds objects in a frame. Implementations must return
// detections sorted by confidence descending.
type Detector interface {
	Detect(frame Frame) ([]Detection, error)
	Close() error
}

// SortByConfidence orders detections by confidence descending, in place.
func SortByConfidence(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Confidence > dets[j].Confidence
	})
}

// TopCandidates returns up to k detections excluding the avoid class.
// If every detection is in the avoid class, it falls back to the
// unfiltered top k so the caller always has something to consider.
func TopCandidates(dets []Detection, avoidClass string, k int) []Detection {
	filtered := make([]Detection, 0, k)
	for _, d := range dets {
		if d.Class == avoidClass {
			continue
		}
		filtered = append(filtered, d)
		if len(filtered) == k {
			return filtered
		}
	}
	if len(filtered) > 0 {
		return filtered
	}
	if len(dets) > k {
		return dets[:k]
	}
	return dets
}

// LargestExcluding returns the largest detection by area whose class is
// not the avoid class. If all detections are in the avoid class it falls
// back to the largest overall. Returns false only when dets is empty.
func LargestExcluding(dets []Detection, avoidClass string) (Detection, bool) {
	if len(dets) == 0 {
		return Detection{}, false
	}

	best := -1
	for i, d := range dets {
		if d.Class == avoidClass {
			continue
		}
		if best == -1 || d.Area() > dets[best].Area() {
			best = i
		}
	}
	if best != -1 {
		return dets[best], true
	}

	// All excluded: largest overall.
	best = 0
	for i, d := range dets {
		if d.Area() > dets[best].Area() {
			best = i
		}
	}
	return dets[best], true
}
