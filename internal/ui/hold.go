package ui

import (
	"time"

	"github.com/dshills/menuconf/internal/input/key"
)

// DefaultRepeatGap is the longest pause between auto-repeated key events
// that still counts as one hold.
const DefaultRepeatGap = 150 * time.Millisecond

// holdTracker measures how long a key has been held from the stream of
// repeat events the terminal delivers.
type holdTracker struct {
	gap   time.Duration
	last  key.Event
	first time.Time
	prev  time.Time
}

func newHoldTracker(gap time.Duration) *holdTracker {
	if gap <= 0 {
		gap = DefaultRepeatGap
	}
	return &holdTracker{gap: gap}
}

// observe records ev at time at and returns the hold duration.
func (h *holdTracker) observe(ev key.Event, at time.Time) time.Duration {
	repeat := !h.prev.IsZero() && h.last.Equals(ev) && at.Sub(h.prev) <= h.gap
	if !repeat {
		h.first = at
	}
	h.last, h.prev = ev, at
	return at.Sub(h.first)
}

func (h *holdTracker) reset() {
	h.last, h.first, h.prev = key.Event{}, time.Time{}, time.Time{}
}
