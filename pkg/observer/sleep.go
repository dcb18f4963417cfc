package observer

import (
	"context"
	"time"
)

// SleepFunc is the Observer's injectable timer primitive: sleep for d, or
// return ctx.Err() if ctx is cancelled first. Tests substitute a fake
// clock driven sleep to make timer-dependent scenarios deterministic.
type SleepFunc func(ctx context.Context, d time.Duration) error

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
