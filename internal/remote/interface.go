// Package remote mirrors flushed metric windows to a PostgREST-compatible
// endpoint such as Supabase.
package remote

import (
	"time"

	"codeberg.org/mutker/kweeb/internal/metrics"
)

// Window is one flushed window as mirrored remotely.
type Window struct {
	Start    time.Time
	End      time.Time
	Counters metrics.Counters
}

// row is the wire shape of a mirrored window.
type row struct {
	DeviceID        string    `json:"device_id"`
	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
	Keypresses      int64     `json:"keypresses"`
	MouseClicks     int64     `json:"mouse_clicks"`
	MouseDistanceIn float64   `json:"mouse_distance_in"`
	MouseDistanceMi float64   `json:"mouse_distance_mi"`
	ScrollSteps     int64     `json:"scroll_steps"`
}

func newRow(deviceID string, w Window) row {
	return row{
		DeviceID:        deviceID,
		WindowStart:     w.Start.UTC(),
		WindowEnd:       w.End.UTC(),
		Keypresses:      w.Counters.Keypresses,
		MouseClicks:     w.Counters.MouseClicks,
		MouseDistanceIn: w.Counters.MouseDistanceIn,
		MouseDistanceMi: w.Counters.MouseDistanceMi,
		ScrollSteps:     w.Counters.ScrollSteps,
	}
}
