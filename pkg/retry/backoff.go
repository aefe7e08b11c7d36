package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes exponential delays capped at Max, with up to Jitter of
// random spread added to each delay.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter time.Duration
}

// Delay returns the wait before the given zero-based attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := b.Base
	for range attempt {
		if delay >= b.Max || delay > math.MaxInt64/2 {
			break
		}
		delay *= 2
	}
	delay = min(delay, b.Max)
	if b.Jitter > 0 {
		delay += time.Duration(rand.Int64N(int64(b.Jitter)))
	}
	return delay
}

// Wait sleeps for the attempt's delay, returning early with ctx.Err() on cancellation.
func (b Backoff) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(b.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
