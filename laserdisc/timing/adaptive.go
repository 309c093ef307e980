package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFieldTime time.Duration
	nextFieldTime   time.Time
	fieldCounter    int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFieldTime: FieldDuration(),
		nextFieldTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextField() {
	now := time.Now()
	sleepTime := a.nextFieldTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextFieldTime) {
				// busy-wait for times under 2ms, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextFieldTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextFieldTime = now
	}

	a.nextFieldTime = a.nextFieldTime.Add(a.targetFieldTime)
	a.fieldCounter++

	if a.fieldCounter%60 == 0 {
		drift := time.Since(a.nextFieldTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextFieldTime = a.nextFieldTime.Add(drift / 10)
			slog.Debug("Field timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFieldTime = time.Now()
	a.fieldCounter = 0
}
