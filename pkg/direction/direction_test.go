package direction

import (
	"testing"

	"github.com/spotter-ai/go-spotter/pkg/geometry"
)

const frameW, frameH = 640, 480

func TestCompute_DepthPath(t *testing.T) {
	leftBox := geometry.Box{X1: 10, Y1: 200, X2: 90, Y2: 280} // center x well inside left third

	tests := []struct {
		name  string
		depth float64
		want  string
	}{
		{"far", 0.9, "on your left — move forward"},
		{"mid", 0.6, "on your left — keep going"},
		{"near", 0.3, "on your left — almost there"},
		{"at target", 0.1, StopPhrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(leftBox, frameW, frameH, tt.depth, true); got != tt.want {
				t.Errorf("depth=%v: got %q, want %q", tt.depth, got, tt.want)
			}
		})
	}
}

func TestCompute_HorizontalZones(t *testing.T) {
	tests := []struct {
		name string
		box  geometry.Box
		want string
	}{
		{"left third", geometry.Box{X1: 10, Y1: 200, X2: 90, Y2: 280}, "on your left — move forward"},
		{"middle third", geometry.Box{X1: 300, Y1: 200, X2: 340, Y2: 280}, "ahead — move forward"},
		{"right third", geometry.Box{X1: 550, Y1: 200, X2: 630, Y2: 280}, "on your right — move forward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.box, frameW, frameH, 0.9, true); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompute_AreaFallback(t *testing.T) {
	tests := []struct {
		name string
		box  geometry.Box
		want string
	}{
		// 40x40 of 640x480 = 0.5% -> far
		{"tiny box", geometry.Box{X1: 300, Y1: 220, X2: 340, Y2: 260}, "ahead — move forward"},
		// 160x120 = 6.25% -> keep going
		{"small box", geometry.Box{X1: 240, Y1: 180, X2: 400, Y2: 300}, "ahead — keep going"},
		// 320x240 = 25%... just under: use 318x238 (~24.6%)
		{"medium box", geometry.Box{X1: 160, Y1: 120, X2: 478, Y2: 358}, "ahead — almost there"},
		// half the frame area: stop regardless of position
		{"huge box left", geometry.Box{X1: 0, Y1: 0, X2: 320, Y2: 480}, StopPhrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.box, frameW, frameH, 0, false); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompute_DegenerateFrame(t *testing.T) {
	// Zero-area frame must not divide by zero; area fraction reads as 0.
	got := Compute(geometry.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, 0, 0, 0, false)
	if got != "on your right — move forward" && got != "ahead — move forward" {
		t.Errorf("degenerate frame: got %q, want a move-forward phrase", got)
	}
}
