package distance_test

import (
	"math"
	"sync"
	"testing"

	"codeberg.org/mutker/kweeb/internal/distance"
	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y int) topology.Point { return topology.Point{X: x, Y: y} }

func single() *topology.Topology {
	return topology.MustNew(topology.Monitor{ID: "main", Width: 1920, Height: 1080, PPI: 96, Primary: true})
}

func mixedDensity() *topology.Topology {
	return topology.MustNew(
		topology.Monitor{ID: "left", X: 0, Y: 0, Width: 1000, Height: 800, PPI: 100, Primary: true},
		topology.Monitor{ID: "right", X: 1000, Y: 0, Width: 1000, Height: 800, PPI: 200},
	)
}

func TestEmptyTopology(t *testing.T) {
	for _, topo := range []*topology.Topology{nil, topology.MustNew()} {
		_, err := distance.Distance(pt(0, 0), pt(1, 1), topo)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, distance.ErrNoMonitorsFound))
	}
}

func TestPointOutsideTopology(t *testing.T) {
	_, err := distance.Distance(pt(0, 0), pt(5000, 0), single())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, distance.ErrPointOutsideTopology))

	_, err = distance.Distance(pt(-1, 0), pt(0, 0), single())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, distance.ErrPointOutsideTopology))
}

func TestZeroDistanceForSamePoint(t *testing.T) {
	topo := mixedDensity()
	for _, p := range []topology.Point{pt(0, 0), pt(999, 799), pt(1000, 0), pt(1999, 400)} {
		d, err := distance.Distance(p, p, topo)
		require.NoError(t, err)
		assert.Zero(t, d, "point %v", p)
	}
}

func TestSameMonitorEuclideanAndSymmetric(t *testing.T) {
	topo := mixedDensity()
	pairs := [][2]topology.Point{
		{pt(10, 10), pt(310, 410)},
		{pt(1100, 700), pt(1900, 100)},
		{pt(0, 0), pt(999, 799)},
	}
	for _, pair := range pairs {
		m, ok := topo.MonitorAt(pair[0])
		require.True(t, ok)
		want := math.Hypot(float64(pair[1].X-pair[0].X), float64(pair[1].Y-pair[0].Y)) / m.PPI

		forward, err := distance.Distance(pair[0], pair[1], topo)
		require.NoError(t, err)
		backward, err := distance.Distance(pair[1], pair[0], topo)
		require.NoError(t, err)

		assert.InDelta(t, want, forward, 1e-9)
		assert.InDelta(t, forward, backward, 1e-9)
	}
}

func TestSingleMonitorScenario(t *testing.T) {
	r, err := distance.Route(pt(0, 0), pt(960, 0), single())
	require.NoError(t, err)

	assert.InDelta(t, 10.0, r.Inches, 1e-9)
	assert.InDelta(t, 0.000158, r.Miles(), 1e-6)
	assert.False(t, r.Degraded)
}

func TestMixedDensityBoundaryCrossing(t *testing.T) {
	r, err := distance.Route(pt(990, 0), pt(1010, 0), mixedDensity())
	require.NoError(t, err)

	assert.InDelta(t, 10.0/100+10.0/200, r.Inches, 1e-9)
	assert.False(t, r.Degraded)
	assert.Equal(t, pt(990, 0), r.Path[0])
	assert.Equal(t, pt(1010, 0), r.Path[len(r.Path)-1])

	back, err := distance.Distance(pt(1010, 0), pt(990, 0), mixedDensity())
	require.NoError(t, err)
	assert.InDelta(t, 10.0/200+10.0/100, back, 1e-9)
}

func TestAdjacentEqualDensityApproximatesStraightLine(t *testing.T) {
	topo := topology.MustNew(
		topology.Monitor{ID: "left", X: 0, Y: 0, Width: 1000, Height: 800, PPI: 110},
		topology.Monitor{ID: "right", X: 1000, Y: 0, Width: 1000, Height: 800, PPI: 110},
	)
	p1, p2 := pt(1004, 400), pt(993, 417)

	d, err := distance.Distance(p1, p2, topo)
	require.NoError(t, err)

	straight := math.Hypot(11, 17) / 110
	assert.InDelta(t, straight, d, 2.0/110)
}

func TestDirectCrossingSkipsWaypoints(t *testing.T) {
	p1, p2 := pt(400, 100), pt(1600, 700)

	r, err := distance.Route(p1, p2, mixedDensity())
	require.NoError(t, err)

	assert.False(t, r.Degraded)
	assert.Equal(t, []topology.Point{p1, p2}, r.Path)

	// The line crosses x=1000 at y=400.
	want := math.Hypot(600, 300)/100 + math.Hypot(600, 300)/200
	assert.InDelta(t, want, r.Inches, 2.0/100)
}

func TestNarrowGapBetweenCoarseSamplesIsRejected(t *testing.T) {
	topo := topology.MustNew(
		topology.Monitor{ID: "a", X: 0, Y: 0, Width: 1000, Height: 100, PPI: 100},
		topology.Monitor{ID: "b", X: 1010, Y: 0, Width: 1000, Height: 100, PPI: 100},
	)

	r, err := distance.Route(pt(100, 50), pt(1900, 50), topo)
	require.NoError(t, err)

	assert.True(t, r.Degraded)
	assert.InDelta(t, 1800.0/100, r.Inches, 1e-9)
}

func TestLShapedLayoutRoutesAroundGap(t *testing.T) {
	topo := topology.MustNew(
		topology.Monitor{ID: "a", X: 0, Y: 0, Width: 1000, Height: 1000, PPI: 100},
		topology.Monitor{ID: "b", X: 1000, Y: 500, Width: 1000, Height: 1000, PPI: 100},
	)
	p1, p2 := pt(100, 100), pt(1100, 1400)

	r, err := distance.Route(p1, p2, topo)
	require.NoError(t, err)
	require.False(t, r.Degraded)
	require.Greater(t, len(r.Path), 2, "the straight line leaves both monitors, so a waypoint is needed")

	for _, p := range r.Path {
		assert.True(t, topo.Covers(p), "waypoint %v must lie on a monitor", p)
	}
	straight := math.Hypot(1000, 1300) / 100
	assert.Greater(t, r.Inches, straight)
	assert.Less(t, r.Inches, 2*straight)

	again, err := distance.Route(p1, p2, topo)
	require.NoError(t, err)
	assert.Equal(t, r, again, "routing must be deterministic")
}

func TestDisconnectedTopologyDegrades(t *testing.T) {
	topo := topology.MustNew(
		topology.Monitor{ID: "a", X: 0, Y: 0, Width: 100, Height: 100, PPI: 50},
		topology.Monitor{ID: "b", X: 200, Y: 0, Width: 100, Height: 100, PPI: 200},
	)

	r, err := distance.Route(pt(50, 50), pt(250, 50), topo)
	require.NoError(t, err)

	assert.True(t, r.Degraded)
	assert.InDelta(t, 200.0/50, r.Inches, 1e-9)
	assert.Equal(t, []topology.Point{pt(50, 50), pt(250, 50)}, r.Path)
}

func TestConcurrentUse(t *testing.T) {
	topo := mixedDensity()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d, err := distance.Distance(pt(990, 0), pt(1010, 0), topo)
				assert.NoError(t, err)
				assert.InDelta(t, 0.15, d, 1e-9)
			}
		}()
	}
	wg.Wait()
}
