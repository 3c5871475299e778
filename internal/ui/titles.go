package ui

import (
	"fmt"

	"codeberg.org/mutker/kweeb/internal/metrics"
)

// Titles are the menubar lines for one set of totals.
type Titles struct {
	Keypresses  string
	MouseClicks string
	MouseTravel string
	ScrollSteps string
}

// FormatTitles renders c for the menubar.
func FormatTitles(c metrics.Counters) Titles {
	return Titles{
		Keypresses:  fmt.Sprintf("Keypresses: %d", c.Keypresses),
		MouseClicks: fmt.Sprintf("Mouse Clicks: %d", c.MouseClicks),
		MouseTravel: fmt.Sprintf("Mouse Travel: %.1f in / %.3f mi", c.MouseDistanceIn, c.MouseDistanceMi),
		ScrollSteps: fmt.Sprintf("Scroll Steps: %d", c.ScrollSteps),
	}
}
