package pipeline

import (
	"context"

	"codeberg.org/mutker/kweeb/internal/distance"
	"codeberg.org/mutker/kweeb/internal/input"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/topology"
)

// Sampler polls the input source and applies the resulting deltas to the
// metrics state without ever blocking on it.
type Sampler struct {
	source input.Sampler
	state  *metrics.State
	topo   *topology.Holder
	cfg    Config
	logger logger.Logger

	prev   input.Snapshot
	primed bool

	// deferred holds a snapshot whose delta was dropped on contention.
	deferred    input.Snapshot
	hasDeferred bool
}

func NewSampler(source input.Sampler, state *metrics.State, topo *topology.Holder, cfg Config, log logger.Logger) *Sampler {
	return &Sampler{
		source: source,
		state:  state,
		topo:   topo,
		cfg:    cfg,
		logger: log,
	}
}

// Run samples every cfg.SampleInterval until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	s.logger.Debug().Dur("interval", s.cfg.SampleInterval).Msg("Sampler started")
	every(ctx, s.cfg.SampleInterval, func(ctx context.Context) { s.Sample(ctx) })
	s.logger.Debug().Msg("Sampler stopped")
}

// Sample takes one snapshot and applies its delta against the previous
// one. It reports whether the previous snapshot advanced. The first call
// only records a baseline.
//
// When the window cell is contended the delta is dropped, the baseline is
// kept and the snapshot is folded into the next one, so the next call
// measures across the skipped interval including taps seen only then.
func (s *Sampler) Sample(ctx context.Context) bool {
	cur, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Input snapshot failed")
		return false
	}

	if !s.primed {
		s.prev, s.primed = cur, true
		return true
	}

	if s.hasDeferred {
		cur = input.Merge(s.deferred, cur)
	}

	d := input.Diff(s.prev, cur, s.cfg.ScrollThreshold)

	if input.Moved(s.prev, cur) {
		inches, err := distance.Distance(s.prev.Mouse.Point(), cur.Mouse.Point(), s.topo.Load())
		if err != nil {
			s.logger.Debug().
				Err(err).
				Int32("from_x", s.prev.Mouse.X).
				Int32("from_y", s.prev.Mouse.Y).
				Int32("to_x", cur.Mouse.X).
				Int32("to_y", cur.Mouse.Y).
				Msg("Distance lookup failed, counting zero travel")
		} else {
			d.DistanceIn = inches
		}
	}

	if d.IsZero() {
		s.advance(cur)
		return true
	}

	window, cumulative := s.state.TryApply(d)
	if !window {
		s.logger.Debug().Msg("Window metrics busy, sample deferred")
		s.deferred, s.hasDeferred = cur, true
		return false
	}
	if !cumulative {
		s.logger.Debug().Msg("Cumulative metrics busy, refreshed on next flush")
	}

	s.advance(cur)
	return true
}

func (s *Sampler) advance(cur input.Snapshot) {
	s.prev = cur
	s.deferred, s.hasDeferred = input.Snapshot{}, false
}
