package pipeline

import (
	"context"
	"sync"

	"codeberg.org/mutker/kweeb/internal/logger"
)

// Runner owns the three loops and their shared lifecycle.
type Runner struct {
	sampler   *Sampler
	flusher   *Flusher
	refresher *Refresher
	cfg       Config
	logger    logger.Logger
}

func NewRunner(sampler *Sampler, flusher *Flusher, refresher *Refresher, cfg Config, log logger.Logger) *Runner {
	return &Runner{
		sampler:   sampler,
		flusher:   flusher,
		refresher: refresher,
		cfg:       cfg,
		logger:    log,
	}
}

// Run loads the topology once, runs all loops until ctx is cancelled, waits
// for them to stop, then performs a final flush under a fresh deadline.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.refresher.Refresh(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Initial topology load failed, distance disabled until next refresh")
	}

	var wg sync.WaitGroup
	for _, loop := range []func(context.Context){r.sampler.Run, r.flusher.Run, r.refresher.Run} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(loop)
	}

	r.logger.Info().Msg("Metrics pipeline running")
	<-ctx.Done()
	wg.Wait()
	r.logger.Info().Msg("Metrics pipeline stopped, flushing")

	finalCtx, cancel := context.WithTimeout(context.Background(), r.cfg.LockTimeout+r.cfg.StoreTimeout+r.cfg.SyncTimeout)
	defer cancel()

	if _, err := r.flusher.FinalFlush(finalCtx); err != nil {
		r.logger.Error().Err(err).Msg("Final flush failed")
		return err
	}
	return nil
}
