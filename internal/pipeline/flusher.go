package pipeline

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/remote"
)

// FlushResult describes one flush cycle. Cumulative is only meaningful
// when HasCumulative is set.
type FlushResult struct {
	Persisted     bool
	Window        metrics.Counters
	Cumulative    metrics.Counters
	HasCumulative bool
}

// Flusher moves the window into the store, refreshes the cumulative totals
// from it, then mirrors and publishes.
type Flusher struct {
	state    *metrics.State
	store    metrics.Store
	remote   RemoteSync
	observer Observer
	deviceID string
	cfg      Config
	logger   logger.Logger
	now      func() time.Time

	mu          sync.Mutex
	pending     metrics.Counters
	windowStart time.Time
	lastPublish time.Time
}

// FlusherOption configures optional collaborators.
type FlusherOption func(*Flusher)

// WithRemote mirrors each persisted window under deviceID.
func WithRemote(r RemoteSync, deviceID string) FlusherOption {
	return func(f *Flusher) {
		f.remote = r
		f.deviceID = deviceID
	}
}

// WithObserver publishes cumulative totals after each flush.
func WithObserver(o Observer) FlusherOption {
	return func(f *Flusher) {
		f.observer = o
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) FlusherOption {
	return func(f *Flusher) {
		f.now = now
	}
}

func NewFlusher(state *metrics.State, store metrics.Store, cfg Config, log logger.Logger, opts ...FlusherOption) *Flusher {
	f := &Flusher{
		state:  state,
		store:  store,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.windowStart = f.now()
	return f
}

// Run flushes every cfg.FlushInterval until ctx is cancelled. Failures are
// logged and retried on the next tick.
func (f *Flusher) Run(ctx context.Context) {
	f.logger.Debug().Dur("interval", f.cfg.FlushInterval).Msg("Flusher started")
	every(ctx, f.cfg.FlushInterval, func(ctx context.Context) {
		_, _ = f.Flush(ctx)
	})
	f.logger.Debug().Msg("Flusher stopped")
}

// Flush runs one cycle. If the insert fails the window is left exactly as
// it was, so the next successful cycle persists both intervals together.
// The persisted amount is subtracted from the window rather than zeroing
// it, which keeps increments that arrived during the insert.
func (f *Flusher) Flush(ctx context.Context) (FlushResult, error) {
	return f.flush(ctx, false)
}

// FinalFlush is Flush for shutdown: the totals are published even when the
// last publish was less than UIMinInterval ago.
func (f *Flusher) FinalFlush(ctx context.Context) (FlushResult, error) {
	return f.flush(ctx, true)
}

func (f *Flusher) flush(ctx context.Context, final bool) (FlushResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result FlushResult

	if err := f.settle(ctx); err != nil {
		f.logger.Warn().Err(err).Msg("Window still busy from previous flush, skipping cycle")
		return result, err
	}

	window, err := f.state.Window.LoadWithin(ctx, f.cfg.LockTimeout)
	if err != nil {
		f.logger.Warn().Err(err).Dur("lock_timeout", f.cfg.LockTimeout).Msg("Window metrics busy, skipping flush")
		return result, err
	}
	result.Window = window

	if window.IsZero() {
		// Nothing to persist, but a menubar started while idle still
		// needs the totals.
		if cumulative, ok := f.state.Cumulative.TryLoad(); ok {
			result.Cumulative, result.HasCumulative = cumulative, true
			f.publish(cumulative, f.now(), final)
		}
		return result, nil
	}

	if err := f.insert(ctx, window); err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			f.logger.ErrorWithCode(coded).Msg("Failed to persist metrics window")
		} else {
			f.logger.Error().Err(err).Msg("Failed to persist metrics window")
		}
		return result, err
	}
	result.Persisted = true
	end := f.now()

	result.Cumulative, result.HasCumulative = f.cumulative(ctx)

	if err := f.state.Window.UpdateWithin(ctx, f.cfg.LockTimeout, func(c *metrics.Counters) {
		*c = c.Sub(window)
	}); err != nil {
		f.pending = window
		f.logger.Warn().Err(err).Msg("Window busy after persist, clearing on next cycle")
	}

	f.sync(ctx, remote.Window{Start: f.windowStart, End: end, Counters: window})
	f.windowStart = end

	if result.HasCumulative {
		f.publish(result.Cumulative, end, final)
	}

	f.logger.Debug().
		Int64("keypresses", window.Keypresses).
		Int64("mouse_clicks", window.MouseClicks).
		Float64("mouse_distance_in", window.MouseDistanceIn).
		Int64("scroll_steps", window.ScrollSteps).
		Msg("Flushed metrics window")

	return result, nil
}

// cumulative refreshes the cumulative cell from the store and returns the
// value to report. Store totals win even if the cell could not be updated;
// otherwise the cell's current value is used when it is free. It reports
// false when no trustworthy value is available.
func (f *Flusher) cumulative(ctx context.Context) (metrics.Counters, bool) {
	totals, fetched, err := f.refreshCumulative(ctx)
	if err == nil {
		return totals, true
	}

	f.logger.Warn().Err(err).Bool("fetched", fetched).Msg("Failed to refresh cumulative totals")
	if fetched {
		return totals, true
	}
	return f.state.Cumulative.TryLoad()
}

// settle subtracts an amount that was persisted by an earlier cycle but
// could not be removed from the window at the time.
func (f *Flusher) settle(ctx context.Context) error {
	if f.pending.IsZero() {
		return nil
	}
	pending := f.pending
	if err := f.state.Window.UpdateWithin(ctx, f.cfg.LockTimeout, func(c *metrics.Counters) {
		*c = c.Sub(pending)
	}); err != nil {
		return err
	}
	f.pending = metrics.Counters{}
	return nil
}

func (f *Flusher) insert(ctx context.Context, window metrics.Counters) error {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.StoreTimeout)
	defer cancel()

	if err := f.store.Insert(ctx, window); err != nil {
		if errors.HasCode(err, errors.ErrStore) {
			return err
		}
		return errors.New().Wrap(errors.ErrStore, err)
	}
	return nil
}

// refreshCumulative overwrites the cumulative cell with the store's totals.
// fetched reports whether the totals were read, even if the cell update then
// timed out.
func (f *Flusher) refreshCumulative(ctx context.Context) (totals metrics.Counters, fetched bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.StoreTimeout)
	defer cancel()

	totals, err = f.store.Totals(ctx)
	if err != nil {
		return metrics.Counters{}, false, errors.New().Wrap(errors.ErrStore, err)
	}

	if err := f.state.Cumulative.UpdateWithin(ctx, f.cfg.LockTimeout, func(c *metrics.Counters) {
		*c = totals
	}); err != nil {
		return totals, true, err
	}
	return totals, true, nil
}

func (f *Flusher) sync(ctx context.Context, w remote.Window) {
	if f.remote == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.SyncTimeout)
	defer cancel()

	if err := f.remote.Upsert(ctx, f.deviceID, w); err != nil {
		f.logger.Warn().
			Err(err).
			Str("error_code", string(errors.ErrSync)).
			Str("device_id", f.deviceID).
			Msg("Failed to mirror metrics window")
	}
}

func (f *Flusher) publish(cumulative metrics.Counters, at time.Time, force bool) {
	if f.observer == nil {
		return
	}
	if !force && !f.lastPublish.IsZero() && at.Sub(f.lastPublish) < f.cfg.UIMinInterval {
		return
	}
	f.lastPublish = at
	f.observer.Publish(cumulative)
}
