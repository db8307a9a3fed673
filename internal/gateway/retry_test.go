package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	backoff := exponentialBackoff(time.Second)

	require.Equal(t, time.Second, backoff(1))
	require.Equal(t, 2*time.Second, backoff(2))
	require.Equal(t, 4*time.Second, backoff(3))
	require.Equal(t, 8*time.Second, backoff(4))
}

func TestRetryDo(t *testing.T) {
	always := func(error) bool { return true }
	never := func(error) bool { return false }
	noSleep := func(context.Context, time.Duration) error { return nil }

	t.Run("returns first success immediately", func(t *testing.T) {
		calls := 0
		result, err := retryDo(context.Background(), 3, exponentialBackoff(time.Second), always, noSleep,
			func() (string, error) {
				calls++
				return "ok", nil
			})

		require.NoError(t, err)
		require.Equal(t, "ok", result)
		require.Equal(t, 1, calls)
	})

	t.Run("retries retryable failures until attempts are exhausted", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		_, err := retryDo(context.Background(), 3, exponentialBackoff(time.Second), always, noSleep,
			func() (string, error) {
				calls++
				return "", boom
			})

		require.ErrorIs(t, err, boom)
		require.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable failures", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		_, err := retryDo(context.Background(), 3, exponentialBackoff(time.Second), never, noSleep,
			func() (string, error) {
				calls++
				return "", boom
			})

		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, calls)
	})

	t.Run("does not sleep after the final attempt", func(t *testing.T) {
		sleeps := 0
		countSleep := func(context.Context, time.Duration) error {
			sleeps++
			return nil
		}

		_, _ = retryDo(context.Background(), 3, exponentialBackoff(time.Second), always, countSleep,
			func() (string, error) {
				return "", errors.New("boom")
			})

		require.Equal(t, 2, sleeps)
	})

	t.Run("stops cleanly when the context is cancelled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		_, err := retryDo(ctx, 3, exponentialBackoff(time.Millisecond), always, sleepContext,
			func() (string, error) {
				calls++
				cancel()
				return "", errors.New("boom")
			})

		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, calls)
	})
}

func TestSleepContext(t *testing.T) {
	t.Run("waits the requested duration", func(t *testing.T) {
		start := time.Now()
		err := sleepContext(context.Background(), 10*time.Millisecond)

		require.NoError(t, err)
		require.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("returns early on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := sleepContext(ctx, time.Minute)
		require.ErrorIs(t, err, context.Canceled)
	})
}
