package sampler

import (
	"context"
	"time"
)

// Every invokes fn once per period until ctx is cancelled. Calls never
// overlap; if fn overruns, missed ticks are dropped rather than queued.
func Every(ctx context.Context, period time.Duration, fn func()) {
	if period <= 0 {
		period = DefaultPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
