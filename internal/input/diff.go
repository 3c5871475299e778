package input

import (
	"slices"

	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/topology"
)

// DefaultScrollThreshold is the vertical pointer jump, in pixels, above
// which one sampling interval counts as a scroll step.
const DefaultScrollThreshold = 15

// Diff derives the key, click and scroll increments between two
// snapshots. Distance is left to the caller because it needs the topology.
//
// A key counts once when it appears in cur without being in prev; held keys
// never repeat. A click is a button that went from released to pressed.
func Diff(prev, cur Snapshot, scrollThreshold int) metrics.Delta {
	var d metrics.Delta

	held := make(map[KeyCode]struct{}, len(prev.Keys))
	for _, k := range prev.Keys {
		held[k] = struct{}{}
	}
	seen := make(map[KeyCode]struct{}, len(cur.Keys))
	for _, k := range cur.Keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := held[k]; !ok {
			d.Keypresses++
		}
	}

	for i, pressed := range cur.Buttons {
		if pressed && !pressedAt(prev.Buttons, i) {
			d.MouseClicks++
		}
	}

	dy := int(cur.Mouse.Y) - int(prev.Mouse.Y)
	if dy < 0 {
		dy = -dy
	}
	if dy > scrollThreshold {
		d.ScrollSteps = 1
	}

	return d
}

// Merge folds an undelivered snapshot into a later one: keys and buttons
// are unioned and the pointer is taken from later. Taps that only appear
// in earlier are kept.
func Merge(earlier, later Snapshot) Snapshot {
	keys := make([]KeyCode, 0, len(earlier.Keys)+len(later.Keys))
	keys = append(keys, earlier.Keys...)
	keys = append(keys, later.Keys...)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	buttons := make([]bool, max(len(earlier.Buttons), len(later.Buttons)))
	for i := range buttons {
		buttons[i] = pressedAt(earlier.Buttons, i) || pressedAt(later.Buttons, i)
	}

	return Snapshot{Keys: keys, Mouse: later.Mouse, Buttons: buttons}
}

// Moved reports whether the pointer changed position.
func Moved(prev, cur Snapshot) bool {
	return prev.Mouse != cur.Mouse
}

// Point converts the pointer position to a topology point.
func (p Position) Point() topology.Point {
	return topology.Point{X: int(p.X), Y: int(p.Y)}
}

func pressedAt(buttons []bool, i int) bool {
	return i < len(buttons) && buttons[i]
}
