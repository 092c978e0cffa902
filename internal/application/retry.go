package application

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

const (
	DefaultLoginAttempts = 3
	DefaultBackoffBase   = 500 * time.Millisecond
	DefaultBackoffMax    = 5 * time.Second
)

// RetryPolicy bounds the login loop. Delays grow exponentially from Base up
// to Max with full jitter. A non-positive Max falls back to DefaultBackoffMax.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration

	jitter func(n int64) int64
	sleep  func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: DefaultLoginAttempts,
		Base:     DefaultBackoffBase,
		Max:      DefaultBackoffMax,
	}
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return DefaultLoginAttempts
	}
	return p.Attempts
}

// Delay returns the pause after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Base <= 0 || attempt < 1 {
		return 0
	}

	limit := p.Max
	if limit <= 0 {
		limit = DefaultBackoffMax
	}
	// rand.Int64N takes ceiling+1, so the ceiling stays below MaxInt64.
	if limit >= math.MaxInt64 {
		limit = math.MaxInt64 - 1
	}

	ceiling := p.Base
	for i := 1; i < attempt && ceiling < limit; i++ {
		if ceiling > math.MaxInt64/2 {
			ceiling = limit
			break
		}
		ceiling *= 2
	}
	if ceiling > limit {
		ceiling = limit
	}

	jitter := p.jitter
	if jitter == nil {
		jitter = rand.Int64N
	}
	return time.Duration(jitter(int64(ceiling) + 1))
}

// Wait sleeps for Delay(attempt) or until ctx is done.
func (p RetryPolicy) Wait(ctx context.Context, attempt int) error {
	d := p.Delay(attempt)
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
