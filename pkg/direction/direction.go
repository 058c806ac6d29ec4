// Package direction turns target geometry into stable spoken guidance.
//
// The horizontal clause comes from which third of the frame holds the box
// center. The distance clause prefers a normalized depth estimate
// (0 = near, 1 = far) and falls back to bounding-box area as a fraction of
// frame area. Both paths share one phrase vocabulary so consumers never
// know which source produced the guidance.
package direction

import (
	"fmt"

	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

// StopPhrase is the terminal announcement once the target is within reach.
// It replaces the whole phrase, not just the distance clause.
const StopPhrase = "stop, it's right in front of you"

// Area-fraction thresholds for the no-depth fallback.
const (
	areaSmall = 0.03 // below: move forward
	areaMed   = 0.10 // below: keep going
	areaClose = 0.25 // below: almost there; at or above: stop
)

// Compute returns a spoken direction phrase for the box, e.g.
// "on your left — keep going" or the terminal stop phrase.
// hasDepth selects the depth path; depth is normalized, 0 near to 1 far.
func Compute(box geometry.Box, frameW, frameH int, depth float64, hasDepth bool) string {
	cx, _ := box.Center()

	var horizontal string
	switch {
	case cx < float64(frameW)*0.33:
		horizontal = "on your left"
	case cx > float64(frameW)*0.66:
		horizontal = "on your right"
	default:
		horizontal = "ahead"
	}

	var distance string
	if hasDepth {
		switch {
		case depth > 0.75:
			distance = "move forward"
		case depth > 0.50:
			distance = "keep going"
		case depth > 0.25:
			distance = "almost there"
		default:
			return StopPhrase
		}
	} else {
		var areaFrac float64
		if frameArea := frameW * frameH; frameArea > 0 {
			areaFrac = float64(box.Area()) / float64(frameArea)
		}
		switch {
		case areaFrac < areaSmall:
			distance = "move forward"
		case areaFrac < areaMed:
			distance = "keep going"
		case areaFrac < areaClose:
			distance = "almost there"
		default:
			return StopPhrase
		}
	}

	return fmt.Sprintf("%s — %s", horizontal, distance)
}
