package pipeline_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/pipeline"
	"codeberg.org/mutker/kweeb/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerStopsOnCancelAndFlushes(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.SampleInterval = 2 * time.Millisecond
	cfg.FlushInterval = time.Hour
	cfg.RefreshInterval = time.Hour

	log := logger.Nop()
	state := metrics.NewState(metrics.Counters{})
	holder := topology.NewHolder(nil)
	store := &memStore{}
	src := &staticSource{descs: twoDisplays()}

	runner := pipeline.NewRunner(
		pipeline.NewSampler(&togglingInput{}, state, holder, cfg, log),
		pipeline.NewFlusher(state, store, cfg, log),
		pipeline.NewRefresher(src, holder, topology.DensityOptions{}, cfg, log),
		cfg,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	assert.Eventually(t, func() bool {
		w, ok := state.Window.TryLoad()
		return ok && w.Keypresses >= 2
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 2, holder.Load().Len())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}

	rows := store.Rows()
	require.Len(t, rows, 1)
	assert.GreaterOrEqual(t, rows[0].Keypresses, int64(2))

	w, _ := state.Window.TryLoad()
	assert.True(t, w.IsZero())
}
