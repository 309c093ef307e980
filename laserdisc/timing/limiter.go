package timing

import "time"

// Limiter controls field rate timing for real-time playback.
type Limiter interface {
	// WaitForNextField blocks until it's time for the next field.
	// Returns immediately if timing is behind schedule.
	WaitForNextField()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextField() {}
func (n *noOpLimiter) Reset()            {}

// NTSC field timing.
const (
	FieldRateNumerator   = 60000
	FieldRateDenominator = 1001
)

// FieldRate is the NTSC field rate, ~59.94 Hz.
func FieldRate() float64 {
	return float64(FieldRateNumerator) / float64(FieldRateDenominator)
}

// FieldDuration returns the duration of a single field.
func FieldDuration() time.Duration {
	return time.Duration(float64(time.Second) / FieldRate())
}
