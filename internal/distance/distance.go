// Package distance converts pixel-space pointer movement into physical
// travel distance across a multi-monitor layout.
package distance

import (
	"math"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/topology"
)

const (
	// InchesPerMile converts inches to statute miles.
	InchesPerMile = 63360.0

	ErrNoMonitorsFound      = errors.ErrNoMonitorsFound
	ErrPointOutsideTopology = errors.ErrPointOutsideTopology
)

// Result is a measured movement. Path holds the waypoints A* chose, from p1
// to p2. Degraded is set when no path exists through the topology and the
// straight line was measured with the start monitor's density.
type Result struct {
	Inches   float64
	Path     []topology.Point
	Degraded bool
}

// Miles returns Inches expressed in miles.
func (r Result) Miles() float64 {
	return r.Inches / InchesPerMile
}

// Distance returns the physical travel distance in inches between p1 and p2.
func Distance(p1, p2 topology.Point, topo *topology.Topology) (float64, error) {
	r, err := Route(p1, p2, topo)
	if err != nil {
		return 0, err
	}
	return r.Inches, nil
}

// Route measures the movement from p1 to p2 and reports the path taken.
// It allocates only local state and is safe for concurrent use.
func Route(p1, p2 topology.Point, topo *topology.Topology) (Result, error) {
	errFactory := errors.New()

	if topo.Empty() {
		return Result{}, errFactory.New(ErrNoMonitorsFound)
	}

	from := topo.Index(p1)
	if from < 0 {
		return Result{}, errFactory.WithData(ErrPointOutsideTopology, p1)
	}
	to := topo.Index(p2)
	if to < 0 {
		return Result{}, errFactory.WithData(ErrPointOutsideTopology, p2)
	}

	if from == to {
		return Result{
			Inches: euclidean(p1, p2) / topo.Monitor(from).PPI,
			Path:   []topology.Point{p1, p2},
		}, nil
	}

	path, ok := newSearch(p1, p2, topo).run()
	if !ok {
		return Result{
			Inches:   euclidean(p1, p2) / topo.Monitor(from).PPI,
			Path:     []topology.Point{p1, p2},
			Degraded: true,
		}, nil
	}

	var inches float64
	w := walker{topo: topo, last: -1}
	for i := 1; i < len(path); i++ {
		inches += w.segmentInches(path[i-1], path[i])
	}

	return Result{Inches: inches, Path: path}, nil
}

// segmentInches splits a→b wherever the containing monitor changes and
// converts each piece with the density of the monitor holding its start.
func (w *walker) segmentInches(a, b topology.Point) float64 {
	var inches float64

	start := a
	current := w.index(a)
	w.each(a, b, func(p topology.Point) bool {
		i := w.index(p)
		if i >= 0 && i != current {
			if current >= 0 {
				inches += euclidean(start, p) / w.topo.Monitor(current).PPI
			}
			start, current = p, i
		}
		return true
	})
	if current >= 0 {
		inches += euclidean(start, b) / w.topo.Monitor(current).PPI
	}

	return inches
}

func euclidean(a, b topology.Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

func manhattan(a, b topology.Point) int {
	return abs(b.X-a.X) + abs(b.Y-a.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
