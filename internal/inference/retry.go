package inference

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Policy bounds a resilient call.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	// Jitter is the +/- fraction applied to each backoff.
	Jitter float64
	// Timeout applies to each attempt, not to the whole call.
	Timeout time.Duration
}

// Outcome describes how a resilient call ended.
type Outcome struct {
	Attempts int
	Fallback bool
	// Err is the last error seen when Fallback is set.
	Err error
}

// Backoff returns the wait before attempt n+1 (n starts at 1), without jitter.
func (p Policy) Backoff(n int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 2
	}
	d := float64(p.InitialBackoff) * math.Pow(mult, float64(n-1))
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	return time.Duration(d)
}

func (p Policy) jittered(n int) time.Duration {
	d := p.Backoff(n)
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	delta := (rand.Float64()*2 - 1) * p.Jitter
	return time.Duration(float64(d) * (1 + delta))
}

// Do runs call under p. Retryable failures are retried with exponential
// backoff; once attempts are exhausted, a non-retryable error occurs, or ctx
// is done, the value produced by fallback is returned instead of an error.
func Do[T any](ctx context.Context, p Policy, call func(ctx context.Context) (T, error), fallback func(err error) T) (T, Outcome) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for n := 1; n <= attempts; n++ {
		v, err := attempt(ctx, p.Timeout, call)
		if err == nil {
			return v, Outcome{Attempts: n}
		}
		lastErr = err

		if !IsRetryable(err) || n == attempts || ctx.Err() != nil {
			return fallback(lastErr), Outcome{Attempts: n, Fallback: true, Err: lastErr}
		}

		timer := time.NewTimer(p.jittered(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fallback(lastErr), Outcome{Attempts: n, Fallback: true, Err: lastErr}
		case <-timer.C:
		}
	}

	// unreachable: the loop always returns
	return fallback(lastErr), Outcome{Attempts: attempts, Fallback: true, Err: lastErr}
}

func attempt[T any](ctx context.Context, timeout time.Duration, call func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return call(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(callCtx)
}
