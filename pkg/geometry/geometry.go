// Package geometry provides bounding-box math for detection boxes:
// intersection-over-union overlap and coarse on-screen position labels.
package geometry

// Box is an axis-aligned bounding box in pixel coordinates.
// Invariant: X2 >= X1 and Y2 >= Y1.
type Box struct {
	X1, Y1, X2, Y2 int
}

// Area returns the box area in pixels.
func (b Box) Area() int {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Center returns the box center point.
func (b Box) Center() (x, y float64) {
	return float64(b.X1+b.X2) / 2, float64(b.Y1+b.Y2) / 2
}

// OverlapRatio computes intersection-over-union between two boxes.
// Returns a value in [0,1], and 0 when the union area is zero.
func OverlapRatio(a, b Box) float64 {
	ix1 := max(a.X1, b.X1)
	iy1 := max(a.Y1, b.Y1)
	ix2 := min(a.X2, b.X2)
	iy2 := min(a.Y2, b.Y2)

	interW := max(0, ix2-ix1)
	interH := max(0, iy2-iy1)
	inter := interW * interH

	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// ClassifyPosition labels where a box sits on screen by partitioning the
// frame into a 3x3 grid of thirds. Possible labels: center, top, bottom,
// left, right, top-left, top-right, bottom-left, bottom-right.
//
// With mirror set, left and right are swapped so "your left" matches the
// physical left of a user facing a mirrored webcam feed.
func ClassifyPosition(b Box, frameW, frameH int, mirror bool) string {
	cx, cy := b.Center()

	var horizontal string
	switch {
	case cx < float64(frameW)/3:
		horizontal = "left"
	case cx < 2*float64(frameW)/3:
		horizontal = "center"
	default:
		horizontal = "right"
	}

	if mirror {
		switch horizontal {
		case "left":
			horizontal = "right"
		case "right":
			horizontal = "left"
		}
	}

	var vertical string
	switch {
	case cy < float64(frameH)/3:
		vertical = "top"
	case cy < 2*float64(frameH)/3:
		vertical = "middle"
	default:
		vertical = "bottom"
	}

	// Center row or column collapses to the other axis's label.
	switch {
	case horizontal == "center" && vertical == "middle":
		return "center"
	case vertical == "middle":
		return horizontal
	case horizontal == "center":
		return vertical
	default:
		return vertical + "-" + horizontal
	}
}
