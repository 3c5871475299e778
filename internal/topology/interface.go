// Package topology models the current set of displays as axis-aligned
// pixel rectangles with per-monitor pixel density.
package topology

import "context"

// Source re-derives the display layout from the operating system.
type Source interface {
	Displays(ctx context.Context) ([]Descriptor, error)
}

// Point is a pixel coordinate in virtual-desktop space. Coordinates may be
// negative for monitors placed left of or above the primary.
type Point struct {
	X int
	Y int
}

// Orientation of a monitor's panel.
type Orientation int

const (
	Landscape Orientation = iota
	Portrait
	LandscapeFlipped
	PortraitFlipped
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case LandscapeFlipped:
		return "landscape-flipped"
	case PortraitFlipped:
		return "portrait-flipped"
	default:
		return "landscape"
	}
}

// Monitor is a display occupying the half-open rectangle
// [X, X+Width) × [Y, Y+Height).
type Monitor struct {
	ID          string
	X           int
	Y           int
	Width       int
	Height      int
	PPI         float64
	Primary     bool
	Orientation Orientation
}

// TransitionKind identifies which boundary point of a monitor a
// TransitionPoint is.
type TransitionKind int

const (
	TopLeft TransitionKind = iota
	TopMid
	TopRight
	RightMid
	BottomRight
	BottomMid
	BottomLeft
	LeftMid
)

// TransitionPoint is a boundary waypoint of a monitor used only for
// cross-monitor pathfinding.
type TransitionPoint struct {
	Point
	Monitor int
	Kind    TransitionKind
}
