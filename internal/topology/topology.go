package topology

import "codeberg.org/mutker/kweeb/internal/errors"

// Topology is an immutable ordered set of monitors. A refreshed layout is
// always a new Topology.
type Topology struct {
	monitors []Monitor
}

// New validates monitors and returns a Topology holding a private copy.
// Overlap between rectangles is not checked.
func New(monitors []Monitor) (*Topology, error) {
	errFactory := errors.New()

	for _, m := range monitors {
		if m.Width <= 0 || m.Height <= 0 || !(m.PPI > 0) {
			return nil, errFactory.WithData(ErrInvalidMonitor, struct {
				ID     string
				Width  int
				Height int
				PPI    float64
			}{m.ID, m.Width, m.Height, m.PPI})
		}
	}

	cp := make([]Monitor, len(monitors))
	copy(cp, monitors)
	return &Topology{monitors: cp}, nil
}

// MustNew is New for static layouts known to be valid.
func MustNew(monitors ...Monitor) *Topology {
	t, err := New(monitors)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of monitors. A nil Topology is empty.
func (t *Topology) Len() int {
	if t == nil {
		return 0
	}
	return len(t.monitors)
}

// Empty reports whether the topology has no monitors.
func (t *Topology) Empty() bool {
	return t.Len() == 0
}

// Monitors returns a copy of the monitor list.
func (t *Topology) Monitors() []Monitor {
	if t == nil {
		return nil
	}
	cp := make([]Monitor, len(t.monitors))
	copy(cp, t.monitors)
	return cp
}

// Monitor returns the monitor at index i.
func (t *Topology) Monitor(i int) Monitor {
	return t.monitors[i]
}

// Index returns the index of the first monitor containing p, or -1.
func (t *Topology) Index(p Point) int {
	if t == nil {
		return -1
	}
	for i := range t.monitors {
		if t.monitors[i].Contains(p) {
			return i
		}
	}
	return -1
}

// MonitorAt returns the monitor containing p.
func (t *Topology) MonitorAt(p Point) (Monitor, bool) {
	i := t.Index(p)
	if i < 0 {
		return Monitor{}, false
	}
	return t.monitors[i], true
}

// Covers reports whether p lies inside at least one monitor.
func (t *Topology) Covers(p Point) bool {
	return t.Index(p) >= 0
}

// Primary returns the primary monitor, falling back to the first one.
func (t *Topology) Primary() (Monitor, bool) {
	if t.Empty() {
		return Monitor{}, false
	}
	for _, m := range t.monitors {
		if m.Primary {
			return m, true
		}
	}
	return t.monitors[0], true
}

// TransitionPoints returns the boundary waypoints of every monitor in
// topology order.
func (t *Topology) TransitionPoints() []TransitionPoint {
	if t == nil {
		return nil
	}
	points := make([]TransitionPoint, 0, 8*len(t.monitors))
	for i, m := range t.monitors {
		points = append(points, m.transitionPoints(i)...)
	}
	return points
}

// Contains reports whether p lies in the monitor's half-open rectangle.
func (m Monitor) Contains(p Point) bool {
	return p.X >= m.X && p.X < m.X+m.Width &&
		p.Y >= m.Y && p.Y < m.Y+m.Height
}

// Right and Bottom are the last pixel column and row inside the monitor.
func (m Monitor) Right() int  { return m.X + m.Width - 1 }
func (m Monitor) Bottom() int { return m.Y + m.Height - 1 }

// WidthInches and HeightInches are the physical panel size implied by PPI.
func (m Monitor) WidthInches() float64  { return float64(m.Width) / m.PPI }
func (m Monitor) HeightInches() float64 { return float64(m.Height) / m.PPI }

// TransitionPoints returns the 4 corners and 4 edge midpoints of m.
func (m Monitor) TransitionPoints() []TransitionPoint {
	return m.transitionPoints(0)
}

func (m Monitor) transitionPoints(index int) []TransitionPoint {
	midX := m.X + m.Width/2
	midY := m.Y + m.Height/2
	right, bottom := m.Right(), m.Bottom()

	return []TransitionPoint{
		{Point{m.X, m.Y}, index, TopLeft},
		{Point{midX, m.Y}, index, TopMid},
		{Point{right, m.Y}, index, TopRight},
		{Point{right, midY}, index, RightMid},
		{Point{right, bottom}, index, BottomRight},
		{Point{midX, bottom}, index, BottomMid},
		{Point{m.X, bottom}, index, BottomLeft},
		{Point{m.X, midY}, index, LeftMid},
	}
}
