package metrics

import (
	"context"
	"time"
)

// Store persists flushed windows and reports the all-time totals. Totals is
// the authoritative cumulative value.
type Store interface {
	Insert(ctx context.Context, window Counters) error
	Totals(ctx context.Context) (Counters, error)
}

// Repository is a Store with range queries and a lifecycle.
type Repository interface {
	Store
	TotalsSince(ctx context.Context, since time.Time) (Counters, error)
	Close() error
}

// Counters is the shape shared by the window (since last flush) and the
// cumulative (all-time) metric sets. All fields are non-negative.
type Counters struct {
	Keypresses      int64   `json:"keypresses" yaml:"keypresses"`
	MouseClicks     int64   `json:"mouse_clicks" yaml:"mouse_clicks"`
	MouseDistanceIn float64 `json:"mouse_distance_in" yaml:"mouse_distance_in"`
	MouseDistanceMi float64 `json:"mouse_distance_mi" yaml:"mouse_distance_mi"`
	ScrollSteps     int64   `json:"scroll_steps" yaml:"scroll_steps"`
}

// Delta is the increment produced by one sampler tick.
type Delta struct {
	Keypresses  int64
	MouseClicks int64
	DistanceIn  float64
	ScrollSteps int64
}
