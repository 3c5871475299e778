// Package input describes raw keyboard and pointer state and turns pairs of
// snapshots into metric increments.
package input

import "context"

// Sampler reports the instantaneous input state.
type Sampler interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// KeyCode identifies a physical key as reported by the platform hook.
type KeyCode uint16

// Position is the pointer location in virtual-desktop pixels.
type Position struct {
	X int32
	Y int32
}

// Snapshot is the input state at one instant. Buttons is indexed by button
// number; a missing index counts as released.
type Snapshot struct {
	Keys    []KeyCode
	Mouse   Position
	Buttons []bool
}

// Button indices used by the desktop hook.
const (
	ButtonLeft = iota
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
	ButtonCount
)
