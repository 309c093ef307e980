package timing

import "time"

// Clock is the emulated wall clock the player measures holds and pulse
// widths against. It only moves forward.
type Clock interface {
	Now() time.Duration
}

// Manual is a Clock advanced explicitly by the host.
type Manual struct {
	now time.Duration
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Now() time.Duration {
	return m.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d > 0 {
		m.now += d
	}
}

// Set jumps to an absolute time, never backwards.
func (m *Manual) Set(t time.Duration) {
	if t > m.now {
		m.now = t
	}
}
