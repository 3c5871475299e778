package metrics

import (
	"context"
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
)

// Cell is an independently lockable Counters value. The lock is a one-slot
// semaphore so callers can choose between a non-blocking attempt and a
// bounded wait.
type Cell struct {
	sem   chan struct{}
	value Counters
}

// NewCell returns a Cell holding initial.
func NewCell(initial Counters) *Cell {
	return &Cell{
		sem:   make(chan struct{}, 1),
		value: initial,
	}
}

// TryUpdate applies fn if the lock is free and reports whether it did.
func (c *Cell) TryUpdate(fn func(*Counters)) bool {
	select {
	case c.sem <- struct{}{}:
	default:
		return false
	}
	defer c.unlock()

	fn(&c.value)
	return true
}

// TryLoad returns the value if the lock is free.
func (c *Cell) TryLoad() (Counters, bool) {
	var v Counters
	ok := c.TryUpdate(func(cur *Counters) { v = *cur })
	return v, ok
}

// UpdateWithin applies fn, waiting at most timeout for the lock. It fails
// with ErrLockTimeout when the wait expires or ctx is done first.
func (c *Cell) UpdateWithin(ctx context.Context, timeout time.Duration, fn func(*Counters)) error {
	if err := c.lockWithin(ctx, timeout); err != nil {
		return err
	}
	defer c.unlock()

	fn(&c.value)
	return nil
}

// LoadWithin returns a copy of the value, waiting at most timeout.
func (c *Cell) LoadWithin(ctx context.Context, timeout time.Duration) (Counters, error) {
	var v Counters
	err := c.UpdateWithin(ctx, timeout, func(cur *Counters) { v = *cur })
	return v, err
}

// Hold acquires the lock and returns its release function. It exists so
// callers and tests can produce contention deliberately.
func (c *Cell) Hold() func() {
	c.sem <- struct{}{}
	return c.unlock
}

func (c *Cell) lockWithin(ctx context.Context, timeout time.Duration) error {
	select {
	case c.sem <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case c.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return errors.New().WithData(ErrLockTimeout, timeout.String())
	case <-ctx.Done():
		return errors.New().Wrap(ErrLockTimeout, ctx.Err())
	}
}

func (c *Cell) unlock() {
	<-c.sem
}
