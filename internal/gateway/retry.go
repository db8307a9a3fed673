package gateway

import (
	"context"
	"time"
)

// backoffFunc maps a 1-based attempt number to the delay taken after that
// attempt fails.
type backoffFunc func(attempt int) time.Duration

// sleeper waits for the given duration or until the context is done.
// Injected so tests run without real delays.
type sleeper func(ctx context.Context, d time.Duration) error

// exponentialBackoff doubles the base delay on every failed attempt:
// base × 2^(attempt-1). No jitter.
func exponentialBackoff(base time.Duration) backoffFunc {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// sleepContext is the production sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryDo invokes fn up to attempts times (including the first call).
// A failure is retried only when retryable reports it transient; any other
// failure propagates immediately. After the final attempt the last error is
// returned as-is for the caller to classify.
func retryDo[T any](
	ctx context.Context,
	attempts int,
	backoff backoffFunc,
	retryable func(error) bool,
	sleep sleeper,
	fn func() (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}

		if attempt < attempts {
			if sleepErr := sleep(ctx, backoff(attempt)); sleepErr != nil {
				return zero, sleepErr
			}
		}
	}

	return zero, lastErr
}
