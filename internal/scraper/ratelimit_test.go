package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AdmitsFullQuotaInstantly(t *testing.T) {
	rl := NewRateLimiter("test", 10, time.Second)

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, rl.Admit(context.Background()))
	}

	assert.Less(t, time.Since(start), 100*time.Millisecond, "first 10 admissions must not block")
}

func TestRateLimiter_EleventhCallBlocksUntilWindowElapses(t *testing.T) {
	window := 400 * time.Millisecond
	rl := NewRateLimiter("test", 10, window)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, rl.Admit(ctx))
	}

	start := time.Now()
	require.NoError(t, rl.Admit(ctx))
	waited := time.Since(start)

	assert.GreaterOrEqual(t, waited, 300*time.Millisecond, "11th call must wait out the window")
}

func TestRateLimiter_WindowResetAdmitsImmediately(t *testing.T) {
	rl := NewRateLimiter("test", 2, 150*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rl.Admit(ctx))
	require.NoError(t, rl.Admit(ctx))

	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	require.NoError(t, rl.Admit(ctx))
	assert.Less(t, time.Since(start), 50*time.Millisecond, "a fresh window admits without waiting")
}

func TestRateLimiter_ContextCancelledWhileWaiting(t *testing.T) {
	rl := NewRateLimiter("test", 1, time.Minute)
	require.NoError(t, rl.Admit(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Admit(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_DefaultsApplied(t *testing.T) {
	rl := NewRateLimiter("test", 0, 0)
	assert.Equal(t, defaultMaxRequests, rl.maxRequests)
	assert.Equal(t, defaultWindow, rl.window)
}
