package metrics

// State holds the window and cumulative cells. The cells lock
// independently so a flush holding one never stalls the other.
type State struct {
	Window     *Cell
	Cumulative *Cell
}

// NewState returns a State with an empty window and the given cumulative
// starting point, normally the store's totals at startup.
func NewState(cumulative Counters) *State {
	return &State{
		Window:     NewCell(Counters{}),
		Cumulative: NewCell(cumulative),
	}
}

// TryApply adds d to both cells without blocking. The cumulative cell is
// only attempted once the window has taken d, so a caller that retries a
// rejected delta never counts it twice.
func (s *State) TryApply(d Delta) (window, cumulative bool) {
	window = s.Window.TryUpdate(func(c *Counters) { *c = c.Add(d) })
	if !window {
		return false, false
	}
	cumulative = s.Cumulative.TryUpdate(func(c *Counters) { *c = c.Add(d) })
	return window, cumulative
}
