// Package retry wraps fallible operations with exponential backoff. It is
// meant for transient infrastructure failures (navigation and search
// timeouts); per-site email discovery swallows its own failures and must not
// be wrapped.
package retry

import (
	"context"
	"math"
	"time"
)

// Policy controls the attempt loop: up to MaxAttempts tries with
// BaseDelay * Factor^attempt between them.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
}

// DefaultPolicy mirrors the crawl defaults: 3 attempts, 2s base, doubling.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second, Factor: 2}
}

// Do runs op until it succeeds or attempts are exhausted. The final failure
// is returned to the caller unchanged. Context cancellation interrupts the
// backoff sleep and surfaces ctx.Err().
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		delay := time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}
