// Package modes contains the per-mode frame handlers and the coordinator
// state machine that dispatches commands and detections to them.
package modes

import (
	"github.com/spotter-ai/go-spotter/pkg/detect"
)

// Announcer is the speech queue surface handlers use. Say is throttled;
// SayNow always delivers.
type Announcer interface {
	Say(text string)
	SayNow(text string)
	ResetThrottle()
}

// handler is the per-frame contract shared by the four modes. Process
// reports true when the mode has finished and the coordinator should
// return to idle; Reset restores post-construction state so an instance
// can be reused across repeated mode entries.
type handler interface {
	Process(detections []detect.Detection, frame detect.Frame) bool
	Reset()
}
