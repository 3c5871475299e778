package distance

import "codeberg.org/mutker/kweeb/internal/topology"

// walker samples segments at unit pixel steps and resolves sampled points
// to monitors, remembering the last hit since consecutive samples almost
// always share a monitor.
type walker struct {
	topo *topology.Topology
	last int
}

func (w *walker) index(p topology.Point) int {
	if w.last >= 0 && w.topo.Monitor(w.last).Contains(p) {
		return w.last
	}
	i := w.topo.Index(p)
	if i >= 0 {
		w.last = i
	}
	return i
}

// coarseStride spaces the first pass of covered. Its samples are a subset
// of the unit-step lattice, so a miss there rejects the edge early.
const coarseStride = 64

// covered reports whether every sampled point of a→b lies on a monitor.
func (w *walker) covered(a, b topology.Point) bool {
	if w.index(a) < 0 {
		return false
	}
	ok := true
	w.stride(a, b, coarseStride, func(p topology.Point) bool {
		if w.index(p) < 0 {
			ok = false
		}
		return ok
	})
	if !ok {
		return false
	}
	w.each(a, b, func(p topology.Point) bool {
		if w.index(p) < 0 {
			ok = false
		}
		return ok
	})
	return ok
}

// each calls fn for the max(|dx|,|dy|) rounded lattice points after a, up
// to and including b, stopping early when fn returns false.
func (w *walker) each(a, b topology.Point, fn func(topology.Point) bool) {
	w.stride(a, b, 1, fn)
}

// stride is each restricted to every n-th lattice point, always ending on b.
func (w *walker) stride(a, b topology.Point, n int, fn func(topology.Point) bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	for i := n; i < steps+n; i += n {
		j := min(i, steps)
		p := topology.Point{X: lerp(a.X, dx, j, steps), Y: lerp(a.Y, dy, j, steps)}
		if !fn(p) {
			return
		}
	}
}

// lerp returns a + round(d*i/n) with halves rounded away from zero.
func lerp(a, d, i, n int) int {
	num := d * i
	if num >= 0 {
		return a + (num+n/2)/n
	}
	return a - (-num+n/2)/n
}
