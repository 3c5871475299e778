// Package desktop binds the input and topology capabilities to the host
// desktop through robotgo, gohook and screenshot. It needs cgo.
package desktop

import (
	"context"
	"sync"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/input"
	"codeberg.org/mutker/kweeb/internal/logger"
	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
)

// libuiohook button numbers start at 1 for the left button.
var buttonIndex = map[uint16]int{
	1: input.ButtonLeft,
	2: input.ButtonRight,
	3: input.ButtonMiddle,
	4: input.ButtonBack,
	5: input.ButtonForward,
}

// HookSampler reads the pointer position from robotgo and keeps the held
// key and button sets from the global gohook event stream.
type HookSampler struct {
	tracker *input.Tracker
	logger  logger.Logger

	once    sync.Once
	started bool
	mu      sync.Mutex
}

func NewHookSampler(log logger.Logger) *HookSampler {
	return &HookSampler{
		tracker: input.NewTracker(),
		logger:  log,
	}
}

// Start registers the global hook and consumes its events until ctx is
// cancelled. It returns immediately.
func (s *HookSampler) Start(ctx context.Context) {
	s.once.Do(func() {
		events := hook.Start()

		s.mu.Lock()
		s.started = true
		s.mu.Unlock()

		go func() {
			defer hook.End()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						s.logger.Warn().Msg("Input hook closed")
						return
					}
					s.handle(ev)
				}
			}
		}()

		s.logger.Info().Msg("Input hook started")
	})
}

// Snapshot implements input.Sampler.
func (s *HookSampler) Snapshot(ctx context.Context) (input.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return input.Snapshot{}, err
	}

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return input.Snapshot{}, errors.New().WithMessage(errors.ErrUnavailable, "input hook not started")
	}

	x, y := robotgo.Location()
	return s.tracker.Snapshot(input.Position{X: int32(x), Y: int32(y)}), nil
}

// handle maps libuiohook event kinds, whose constant names in gohook do not
// match their meaning: KeyHold is a press, KeyUp a release, MouseHold a
// button press and MouseDown its release.
func (s *HookSampler) handle(ev hook.Event) {
	switch ev.Kind {
	case hook.KeyHold:
		s.tracker.KeyDown(input.KeyCode(ev.Rawcode))
	case hook.KeyUp:
		s.tracker.KeyUp(input.KeyCode(ev.Rawcode))
	case hook.MouseHold:
		if b, ok := buttonIndex[ev.Button]; ok {
			s.tracker.ButtonDown(b)
		}
	case hook.MouseDown:
		if b, ok := buttonIndex[ev.Button]; ok {
			s.tracker.ButtonUp(b)
		}
	}
}
