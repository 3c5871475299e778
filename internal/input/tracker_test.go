package input_test

import (
	"testing"

	"codeberg.org/mutker/kweeb/internal/input"
	"github.com/stretchr/testify/assert"
)

func TestTrackerHeldKeys(t *testing.T) {
	tr := input.NewTracker()
	tr.KeyDown(31)
	tr.KeyDown(30)

	snap := tr.Snapshot(input.Position{X: 1, Y: 2})
	assert.Equal(t, []input.KeyCode{30, 31}, snap.Keys)
	assert.Equal(t, input.Position{X: 1, Y: 2}, snap.Mouse)

	// still held on the next poll
	assert.Equal(t, []input.KeyCode{30, 31}, tr.Snapshot(input.Position{}).Keys)

	tr.KeyUp(30)
	assert.Equal(t, []input.KeyCode{31}, tr.Snapshot(input.Position{}).Keys)
}

func TestTrackerKeepsTapBetweenPolls(t *testing.T) {
	tr := input.NewTracker()
	prev := tr.Snapshot(input.Position{})

	tr.KeyDown(44)
	tr.KeyUp(44)
	cur := tr.Snapshot(input.Position{})
	assert.Equal(t, []input.KeyCode{44}, cur.Keys)
	assert.Equal(t, int64(1), input.Diff(prev, cur, input.DefaultScrollThreshold).Keypresses)

	next := tr.Snapshot(input.Position{})
	assert.Empty(t, next.Keys)
}

func TestTrackerButtons(t *testing.T) {
	tr := input.NewTracker()
	prev := tr.Snapshot(input.Position{})

	tr.ButtonDown(input.ButtonLeft)
	tr.ButtonUp(input.ButtonLeft)
	tr.ButtonDown(input.ButtonRight)
	tr.ButtonDown(99)

	cur := tr.Snapshot(input.Position{})
	assert.Len(t, cur.Buttons, input.ButtonCount)
	assert.True(t, cur.Buttons[input.ButtonLeft])
	assert.True(t, cur.Buttons[input.ButtonRight])
	assert.Equal(t, int64(2), input.Diff(prev, cur, input.DefaultScrollThreshold).MouseClicks)

	after := tr.Snapshot(input.Position{})
	assert.False(t, after.Buttons[input.ButtonLeft])
	assert.True(t, after.Buttons[input.ButtonRight])
}
