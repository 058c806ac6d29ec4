// Package hud draws the on-screen overlay: detection boxes, the mode
// status line, the locked-target marker, and a loading spinner while a
// details analysis is in flight.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
	"github.com/spotter-ai/go-spotter/pkg/modes"
)

var (
	boxColor    = color.RGBA{R: 0x00, G: 0x7f, B: 0xff, A: 255}
	lockColor   = color.RGBA{R: 0x11, G: 0x8a, B: 0x28, A: 255}
	statusColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 255}
	loadColor   = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 255}
)

// Overlay renders one frame's worth of HUD onto a Mat.
type Overlay struct {
	spinnerPhase float64
}

// New creates an overlay renderer.
func New() *Overlay {
	return &Overlay{}
}

// Draw paints boxes and status for the tick onto img in place.
func (o *Overlay) Draw(img *gocv.Mat, detections []detect.Detection, res modes.TickResult) {
	for _, d := range detections {
		rect := toRect(d.Box)
		gocv.Rectangle(img, rect, boxColor, 2)

		label := fmt.Sprintf("%s %.0f%%", d.Class, d.Confidence*100)
		labelPos := image.Point{X: rect.Min.X, Y: rect.Min.Y - 8}
		if labelPos.Y < 15 {
			labelPos.Y = rect.Max.Y + 20
		}
		gocv.PutText(img, label, labelPos, gocv.FontHersheySimplex, 0.4, boxColor, 1)
	}

	if res.HasTarget && res.Locked {
		rect := toRect(res.Target.Box)
		gocv.Rectangle(img, rect, lockColor, 3)
		gocv.PutText(img, "LOCKED", image.Point{X: rect.Min.X, Y: rect.Max.Y + 20},
			gocv.FontHersheySimplex, 0.5, lockColor, 2)
	}

	gocv.PutText(img, o.statusLine(res), image.Point{X: 10, Y: 25},
		gocv.FontHersheySimplex, 0.6, statusColor, 2)

	if res.Loading {
		o.drawSpinner(img)
	}
}

// statusLine formats the mode indicator in the top-left corner.
func (o *Overlay) statusLine(res modes.TickResult) string {
	switch res.Mode {
	case modes.ModeFind:
		if res.Locked {
			if res.Direction != "" {
				return fmt.Sprintf("FIND %s: %s", res.Query, res.Direction)
			}
			return fmt.Sprintf("FIND %s: locked", res.Query)
		}
		return fmt.Sprintf("FIND %s: scanning", res.Query)
	case modes.ModeWhat:
		return "IDENTIFY: hold still"
	case modes.ModeRead:
		return "READ"
	case modes.ModeDetails:
		return "DETAILS: analyzing"
	default:
		return "IDLE"
	}
}

// drawSpinner rotates a short arc near the status line each frame.
func (o *Overlay) drawSpinner(img *gocv.Mat) {
	o.spinnerPhase += 0.35
	center := image.Point{X: img.Cols() - 30, Y: 25}
	tip := image.Point{
		X: center.X + int(12*math.Cos(o.spinnerPhase)),
		Y: center.Y + int(12*math.Sin(o.spinnerPhase)),
	}
	gocv.Circle(img, center, 14, loadColor, 2)
	gocv.Line(img, center, tip, loadColor, 2)
}

func toRect(b geometry.Box) image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}
