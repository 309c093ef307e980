package timing

import "time"

// TickerLimiter paces on a time.Ticker. The ticker drops ticks while the
// caller is busy; those fields are counted as skipped.
type TickerLimiter struct {
	period  time.Duration
	ticker  *time.Ticker
	last    time.Time
	skipped uint64
}

// NewTickerLimiter paces at the NTSC field rate.
func NewTickerLimiter() *TickerLimiter {
	return newTickerLimiter(FieldDuration())
}

func newTickerLimiter(period time.Duration) *TickerLimiter {
	return &TickerLimiter{
		period: period,
		ticker: time.NewTicker(period),
	}
}

func (t *TickerLimiter) WaitForNextField() {
	<-t.ticker.C
	now := time.Now()
	if !t.last.IsZero() {
		fields := (now.Sub(t.last) + t.period/2) / t.period
		if fields > 1 {
			t.skipped += uint64(fields - 1)
		}
	}
	t.last = now
}

// Skipped is the number of fields the ticker dropped because a wait
// started late.
func (t *TickerLimiter) Skipped() uint64 {
	return t.skipped
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
	t.last = time.Time{}
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
