package harness

import (
	"context"
	"time"
)

// Scheduler is the only place a run suspends.
type Scheduler interface {
	Wait(ctx context.Context, d time.Duration) error
}

// SleepScheduler waits on a timer.
type SleepScheduler struct{}

// Wait blocks for d or until ctx is done.
func (SleepScheduler) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
