package relay

import (
	"context"
	"time"
)

// Clock abstracts time reads and cooperative sleeps so cooldown arithmetic,
// inter-round backoff and confirmation polling can be tested without real
// delays.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err() in
	// the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the wall clock.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
