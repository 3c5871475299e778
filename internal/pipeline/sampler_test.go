package pipeline_test

import (
	"context"
	stderrors "errors"
	"testing"

	"codeberg.org/mutker/kweeb/internal/input"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/pipeline"
	"codeberg.org/mutker/kweeb/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(x, y int32, keys ...input.KeyCode) input.Snapshot {
	return input.Snapshot{Mouse: input.Position{X: x, Y: y}, Keys: keys}
}

func newSampler(src input.Sampler, topo *topology.Topology) (*pipeline.Sampler, *metrics.State) {
	state := metrics.NewState(metrics.Counters{})
	s := pipeline.NewSampler(src, state, topology.NewHolder(topo), pipeline.DefaultConfig(), logger.Nop())
	return s, state
}

func window(t *testing.T, state *metrics.State) metrics.Counters {
	t.Helper()
	w, ok := state.Window.TryLoad()
	require.True(t, ok)
	return w
}

func TestSamplerFirstSampleIsBaseline(t *testing.T) {
	s, state := newSampler(&scriptedInput{snaps: []input.Snapshot{at(0, 0, 1, 2)}}, singleMonitor())

	assert.True(t, s.Sample(context.Background()))
	assert.True(t, window(t, state).IsZero())
}

func TestSamplerAppliesDeltas(t *testing.T) {
	src := &scriptedInput{snaps: []input.Snapshot{
		at(0, 0),
		{Mouse: input.Position{X: 960, Y: 0}, Keys: []input.KeyCode{30}, Buttons: []bool{true}},
	}}
	s, state := newSampler(src, singleMonitor())
	ctx := context.Background()

	s.Sample(ctx)
	require.True(t, s.Sample(ctx))

	w := window(t, state)
	assert.Equal(t, int64(1), w.Keypresses)
	assert.Equal(t, int64(1), w.MouseClicks)
	assert.InDelta(t, 10.0, w.MouseDistanceIn, 1e-9)
	assert.InDelta(t, 10.0/63360, w.MouseDistanceMi, 1e-12)

	c, ok := state.Cumulative.TryLoad()
	require.True(t, ok)
	assert.Equal(t, w, c)
}

func TestSamplerDefersOnContention(t *testing.T) {
	src := &scriptedInput{snaps: []input.Snapshot{at(0, 0), at(480, 0), at(960, 0)}}
	s, state := newSampler(src, singleMonitor())
	ctx := context.Background()

	s.Sample(ctx)

	release := state.Window.Hold()
	assert.False(t, s.Sample(ctx))
	release()

	require.True(t, s.Sample(ctx))
	assert.InDelta(t, 10.0, window(t, state).MouseDistanceIn, 1e-9)

	c, _ := state.Cumulative.TryLoad()
	assert.InDelta(t, 10.0, c.MouseDistanceIn, 1e-9)
}

// trackerInput serves snapshots from an input.Tracker at a fixed position.
type trackerInput struct {
	tr *input.Tracker
}

func (s trackerInput) Snapshot(context.Context) (input.Snapshot, error) {
	return s.tr.Snapshot(input.Position{X: 10, Y: 10}), nil
}

func TestSamplerKeepsTapsAcrossContention(t *testing.T) {
	tr := input.NewTracker()
	s, state := newSampler(trackerInput{tr: tr}, singleMonitor())
	ctx := context.Background()

	require.True(t, s.Sample(ctx))

	tr.KeyDown(10)
	tr.KeyUp(10)
	tr.ButtonDown(input.ButtonLeft)
	tr.ButtonUp(input.ButtonLeft)

	release := state.Window.Hold()
	assert.False(t, s.Sample(ctx))
	release()

	require.True(t, s.Sample(ctx))
	w := window(t, state)
	assert.Equal(t, int64(1), w.Keypresses)
	assert.Equal(t, int64(1), w.MouseClicks)

	// the merged taps are not counted again once delivered
	require.True(t, s.Sample(ctx))
	require.True(t, s.Sample(ctx))
	assert.Equal(t, int64(1), window(t, state).Keypresses)
}

func TestSamplerEngineFailureCountsZeroDistance(t *testing.T) {
	src := &scriptedInput{snaps: []input.Snapshot{at(0, 0), at(5000, 5000, 7)}}
	s, state := newSampler(src, singleMonitor())
	ctx := context.Background()

	s.Sample(ctx)
	assert.True(t, s.Sample(ctx))

	w := window(t, state)
	assert.Equal(t, int64(1), w.Keypresses)
	assert.Zero(t, w.MouseDistanceIn)
}

func TestSamplerWithoutTopology(t *testing.T) {
	src := &scriptedInput{snaps: []input.Snapshot{at(0, 0), at(100, 0)}}
	s, state := newSampler(src, nil)
	ctx := context.Background()

	s.Sample(ctx)
	assert.True(t, s.Sample(ctx))
	assert.True(t, window(t, state).IsZero())
}

func TestSamplerSnapshotError(t *testing.T) {
	s, state := newSampler(&scriptedInput{err: stderrors.New("hook down")}, singleMonitor())

	assert.False(t, s.Sample(context.Background()))
	assert.True(t, window(t, state).IsZero())
}
