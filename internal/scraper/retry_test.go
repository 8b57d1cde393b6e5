package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shrink the backoff so exhaustion tests run in milliseconds
func fastBackoff(t *testing.T) {
	t.Helper()
	old := backoffUnit
	backoffUnit = time.Millisecond
	t.Cleanup(func() { backoffUnit = old })
}

func TestWithRetry_AlwaysFailingRunsExactlyMaxAttempts(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := WithRetry(context.Background(), "flaky-board", 3, func() error {
		calls++
		return errors.New("connection reset")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestWithRetry_SucceedsOnLaterAttempt(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := WithRetry(context.Background(), "flaky-board", 3, func() error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NoRetryAfterSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), "stable-board", 3, func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ZeroAttemptsFallsBackToDefault(t *testing.T) {
	fastBackoff(t)

	calls := 0
	err := WithRetry(context.Background(), "flaky-board", 0, func() error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, defaultMaxAttempts, calls)
}

func TestWithRetry_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, "flaky-board", 3, func() error {
		calls++
		return errors.New("boom")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
