package pipeline

import (
	"context"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/topology"
)

// Refresher re-derives the monitor layout and swaps it into the holder.
type Refresher struct {
	source  topology.Source
	holder  *topology.Holder
	density topology.DensityOptions
	cfg     Config
	logger  logger.Logger
}

func NewRefresher(source topology.Source, holder *topology.Holder, density topology.DensityOptions, cfg Config, log logger.Logger) *Refresher {
	return &Refresher{
		source:  source,
		holder:  holder,
		density: density,
		cfg:     cfg,
		logger:  log,
	}
}

// Run refreshes every cfg.RefreshInterval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Debug().Dur("interval", r.cfg.RefreshInterval).Msg("Topology refresher started")
	every(ctx, r.cfg.RefreshInterval, func(ctx context.Context) {
		if err := r.Refresh(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("Topology refresh failed, keeping previous layout")
		}
	})
	r.logger.Debug().Msg("Topology refresher stopped")
}

// Refresh queries the source once. On any failure, including an empty
// display list, the current snapshot is left in place.
func (r *Refresher) Refresh(ctx context.Context) error {
	descs, err := r.source.Displays(ctx)
	if err != nil {
		if errors.HasCode(err, topology.ErrSystem) {
			return err
		}
		return errors.New().Wrap(topology.ErrSystem, err)
	}

	next, err := topology.FromDescriptors(descs, r.density)
	if err != nil {
		return err
	}

	prev := r.holder.Load()
	r.holder.Store(next)

	if prev.Len() != next.Len() {
		for _, m := range next.Monitors() {
			r.logger.Info().
				Str("id", m.ID).
				Int("x", m.X).
				Int("y", m.Y).
				Int("width", m.Width).
				Int("height", m.Height).
				Float64("ppi", m.PPI).
				Bool("primary", m.Primary).
				Msg("Monitor detected")
		}
	}

	return nil
}
