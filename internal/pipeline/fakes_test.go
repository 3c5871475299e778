package pipeline_test

import (
	"context"
	"sync"

	"codeberg.org/mutker/kweeb/internal/input"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/remote"
	"codeberg.org/mutker/kweeb/internal/topology"
)

// scriptedInput replays snapshots in order and then repeats the last one.
type scriptedInput struct {
	mu    sync.Mutex
	snaps []input.Snapshot
	next  int
	err   error
}

func (s *scriptedInput) Snapshot(context.Context) (input.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return input.Snapshot{}, s.err
	}
	if len(s.snaps) == 0 {
		return input.Snapshot{}, nil
	}
	snap := s.snaps[min(s.next, len(s.snaps)-1)]
	s.next++
	return snap, nil
}

// togglingInput alternates between one held key and none, so every other
// sample is a new key press.
type togglingInput struct {
	mu sync.Mutex
	n  int
}

func (t *togglingInput) Snapshot(context.Context) (input.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.n++
	if t.n%2 == 0 {
		return input.Snapshot{Keys: []input.KeyCode{42}}, nil
	}
	return input.Snapshot{}, nil
}

type memStore struct {
	mu        sync.Mutex
	rows      []metrics.Counters
	insertErr error
	totalsErr error
	block     bool
	onInsert  func()
}

func (s *memStore) Insert(ctx context.Context, window metrics.Counters) error {
	if s.onInsert != nil {
		s.onInsert()
	}
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.rows = append(s.rows, window)
	return nil
}

func (s *memStore) Totals(context.Context) (metrics.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.totalsErr != nil {
		return metrics.Counters{}, s.totalsErr
	}
	var total metrics.Counters
	for _, r := range s.rows {
		total = total.Plus(r)
	}
	return total, nil
}

func (s *memStore) Rows() []metrics.Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]metrics.Counters(nil), s.rows...)
}

type recordingRemote struct {
	mu      sync.Mutex
	windows []remote.Window
	devices []string
	err     error
}

func (r *recordingRemote) Upsert(_ context.Context, deviceID string, w remote.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows = append(r.windows, w)
	r.devices = append(r.devices, deviceID)
	return r.err
}

type recordingObserver struct {
	mu        sync.Mutex
	published []metrics.Counters
}

func (o *recordingObserver) Publish(c metrics.Counters) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published = append(o.published, c)
}

func (o *recordingObserver) Published() []metrics.Counters {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]metrics.Counters(nil), o.published...)
}

type staticSource struct {
	mu    sync.Mutex
	descs []topology.Descriptor
	err   error
}

func (s *staticSource) Displays(context.Context) ([]topology.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.descs, s.err
}

func (s *staticSource) set(descs []topology.Descriptor, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descs, s.err = descs, err
}

func singleMonitor() *topology.Topology {
	return topology.MustNew(topology.Monitor{ID: "main", Width: 1920, Height: 1080, PPI: 96, Primary: true})
}
