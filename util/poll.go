package util

import (
	"context"
	"time"
)

// Poll evaluates cond every interval until it returns true, maxWait elapses
// or ctx is done. cond is always evaluated at least once.
// It reports whether cond was satisfied.
func Poll(ctx context.Context, interval, maxWait time.Duration, cond func() bool) bool {
	if cond() {
		return true
	}

	deadline := time.NewTimer(maxWait)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return cond()
		case <-ticker.C:
			if cond() {
				return true
			}
		}
	}
}
