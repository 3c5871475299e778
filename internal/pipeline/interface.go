// Package pipeline runs the sampling, flushing and topology refresh loops
// that turn raw input into persisted activity metrics.
package pipeline

import (
	"context"
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/remote"
)

// RemoteSync mirrors a flushed window. It is optional and best-effort.
type RemoteSync interface {
	Upsert(ctx context.Context, deviceID string, w remote.Window) error
}

// Observer receives the cumulative totals after each flush. Publish must
// not block.
type Observer interface {
	Publish(cumulative metrics.Counters)
}

const (
	DefaultSampleInterval  = 100 * time.Millisecond
	DefaultFlushInterval   = 5 * time.Second
	DefaultRefreshInterval = 30 * time.Second
	DefaultLockTimeout     = time.Second
	DefaultStoreTimeout    = 2 * time.Second
	DefaultSyncTimeout     = 5 * time.Second
	DefaultUIMinInterval   = time.Second
)

// Config holds the loop cadences and bounded waits.
type Config struct {
	SampleInterval  time.Duration
	FlushInterval   time.Duration
	RefreshInterval time.Duration
	LockTimeout     time.Duration
	StoreTimeout    time.Duration
	SyncTimeout     time.Duration
	UIMinInterval   time.Duration
	ScrollThreshold int
}

func DefaultConfig() Config {
	return Config{
		SampleInterval:  DefaultSampleInterval,
		FlushInterval:   DefaultFlushInterval,
		RefreshInterval: DefaultRefreshInterval,
		LockTimeout:     DefaultLockTimeout,
		StoreTimeout:    DefaultStoreTimeout,
		SyncTimeout:     DefaultSyncTimeout,
		UIMinInterval:   DefaultUIMinInterval,
		ScrollThreshold: 15,
	}
}

// Validate checks that every interval is positive and that the flush lock
// wait is strictly shorter than the flush interval.
func (c Config) Validate() error {
	errFactory := errors.New()

	for name, d := range map[string]time.Duration{
		"sample_interval":  c.SampleInterval,
		"flush_interval":   c.FlushInterval,
		"refresh_interval": c.RefreshInterval,
		"lock_timeout":     c.LockTimeout,
		"store_timeout":    c.StoreTimeout,
		"sync_timeout":     c.SyncTimeout,
	} {
		if d <= 0 {
			return errFactory.WithData(errors.ErrInvalidInterval, struct {
				Field string
				Value string
			}{
				Field: name,
				Value: d.String(),
			})
		}
	}

	if c.LockTimeout >= c.FlushInterval {
		return errFactory.WithMessage(errors.ErrInvalidInterval, "lock_timeout must be shorter than flush_interval")
	}
	if c.UIMinInterval < 0 {
		return errFactory.WithMessage(errors.ErrInvalidInterval, "ui min_interval must not be negative")
	}
	if c.ScrollThreshold < 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "scroll_threshold must not be negative")
	}
	return nil
}

// every calls fn on each tick of interval until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
