package topology

import "sync/atomic"

// Holder publishes the current Topology snapshot. Store swaps the pointer so
// readers see either the old or the new layout, never a mix.
type Holder struct {
	current atomic.Pointer[Topology]
}

// NewHolder returns a Holder initialised with t, which may be nil.
func NewHolder(t *Topology) *Holder {
	h := &Holder{}
	if t != nil {
		h.current.Store(t)
	}
	return h
}

// Load returns the current snapshot, or nil before the first Store.
func (h *Holder) Load() *Topology {
	return h.current.Load()
}

// Store replaces the current snapshot.
func (h *Holder) Store(t *Topology) {
	h.current.Store(t)
}
