package distance

import (
	"container/heap"
	"math"

	"codeberg.org/mutker/kweeb/internal/topology"
)

// search is one A* run over the waypoint graph: p1, p2 and the transition
// points of every monitor, fully connected by edges whose sampled pixels
// all lie on some monitor.
type search struct {
	nodes []topology.Point
	goal  int
	legal map[[2]int]bool
	walk  walker
}

func newSearch(p1, p2 topology.Point, topo *topology.Topology) *search {
	s := &search{
		legal: make(map[[2]int]bool),
		walk:  walker{topo: topo, last: -1},
	}

	seen := make(map[topology.Point]int)
	add := func(p topology.Point) int {
		if i, ok := seen[p]; ok {
			return i
		}
		seen[p] = len(s.nodes)
		s.nodes = append(s.nodes, p)
		return len(s.nodes) - 1
	}

	add(p1)
	s.goal = add(p2)
	for _, tp := range topo.TransitionPoints() {
		add(tp.Point)
	}

	return s
}

func (s *search) edge(a, b int) bool {
	key := [2]int{a, b}
	if a > b {
		key = [2]int{b, a}
	}
	if ok, done := s.legal[key]; done {
		return ok
	}
	ok := s.walk.covered(s.nodes[key[0]], s.nodes[key[1]])
	s.legal[key] = ok
	return ok
}

// run returns the waypoint path from node 0 to the goal. A legal direct
// edge costs exactly the heuristic, so it is returned without a search.
func (s *search) run() ([]topology.Point, bool) {
	if s.edge(0, s.goal) {
		return []topology.Point{s.nodes[0], s.nodes[s.goal]}, true
	}

	n := len(s.nodes)
	g := make([]int, n)
	came := make([]int, n)
	closed := make([]bool, n)
	for i := range g {
		g[i] = math.MaxInt
		came[i] = -1
	}

	goal := s.nodes[s.goal]
	open := &frontier{}
	g[0] = 0
	heap.Push(open, &entry{node: 0, g: 0, f: manhattan(s.nodes[0], goal)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*entry)
		if closed[cur.node] {
			continue
		}
		if cur.node == s.goal {
			return s.reconstruct(came), true
		}
		closed[cur.node] = true

		for next := 0; next < n; next++ {
			if closed[next] || next == cur.node || !s.edge(cur.node, next) {
				continue
			}
			cost := g[cur.node] + manhattan(s.nodes[cur.node], s.nodes[next])
			if cost >= g[next] {
				continue
			}
			g[next] = cost
			came[next] = cur.node
			heap.Push(open, &entry{
				node: next,
				g:    cost,
				f:    cost + manhattan(s.nodes[next], goal),
				seq:  open.pushed,
			})
		}
	}

	return nil, false
}

func (s *search) reconstruct(came []int) []topology.Point {
	var rev []topology.Point
	for at := s.goal; at >= 0; at = came[at] {
		rev = append(rev, s.nodes[at])
	}
	path := make([]topology.Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

type entry struct {
	node int
	g    int
	f    int
	seq  int
}

// frontier orders entries by f, preferring deeper g on ties and then
// insertion order, so equal-cost searches always resolve the same way.
type frontier struct {
	items  []*entry
	pushed int
}

func (q *frontier) Len() int { return len(q.items) }

func (q *frontier) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return a.seq < b.seq
}

func (q *frontier) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *frontier) Push(x any) {
	q.items = append(q.items, x.(*entry))
	q.pushed++
}

func (q *frontier) Pop() any {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return it
}
