package input

import (
	"slices"
	"sync"
)

// Tracker folds a push-style event stream into pollable snapshots. A key or
// button pressed and released between two polls still appears in the next
// snapshot, so short taps are not lost to the sampling interval.
type Tracker struct {
	mu          sync.Mutex
	held        map[KeyCode]struct{}
	tapped      map[KeyCode]struct{}
	buttons     [ButtonCount]bool
	tappedClick [ButtonCount]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		held:   make(map[KeyCode]struct{}),
		tapped: make(map[KeyCode]struct{}),
	}
}

func (t *Tracker) KeyDown(k KeyCode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held[k] = struct{}{}
	t.tapped[k] = struct{}{}
}

func (t *Tracker) KeyUp(k KeyCode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held, k)
}

// ButtonDown records a press of button index b. Unknown indices are ignored.
func (t *Tracker) ButtonDown(b int) {
	if b < 0 || b >= ButtonCount {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buttons[b] = true
	t.tappedClick[b] = true
}

func (t *Tracker) ButtonUp(b int) {
	if b < 0 || b >= ButtonCount {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buttons[b] = false
}

// Snapshot returns the keys and buttons held or tapped since the previous
// call, with the pointer at pos. Keys are sorted.
func (t *Tracker) Snapshot(pos Position) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]KeyCode, 0, len(t.held)+len(t.tapped))
	for k := range t.held {
		keys = append(keys, k)
	}
	for k := range t.tapped {
		if _, ok := t.held[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	clear(t.tapped)

	buttons := make([]bool, ButtonCount)
	for i := range buttons {
		buttons[i] = t.buttons[i] || t.tappedClick[i]
	}
	t.tappedClick = [ButtonCount]bool{}

	return Snapshot{Keys: keys, Mouse: pos, Buttons: buttons}
}
