package scraper

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	defaultMaxRequests = 10
	defaultWindow      = time.Minute
)

// RateLimiter is a fixed-window request counter. Each adapter instance owns
// exactly one; the window state is never shared across boards.
//
// Known approximation: a fixed window can admit up to 2×max requests across a
// window boundary. The per-board quotas are conservative enough that this is
// accepted rather than replaced with a token bucket.
type RateLimiter struct {
	mu           sync.Mutex
	name         string
	maxRequests  int
	window       time.Duration
	requestCount int
	windowStart  time.Time
}

// NewRateLimiter builds a limiter admitting maxRequests per window.
// Non-positive arguments fall back to 10 requests per 60s.
func NewRateLimiter(name string, maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimiter{
		name:        name,
		maxRequests: maxRequests,
		window:      window,
		windowStart: time.Now(),
	}
}

// Admit blocks until one request may proceed, then records it.
// Returns early with the context error if ctx is cancelled while waiting.
func (rl *RateLimiter) Admit(ctx context.Context) error {
	rl.mu.Lock()

	now := time.Now()
	elapsed := now.Sub(rl.windowStart)

	// window expired: fresh window, admit immediately
	if elapsed >= rl.window {
		rl.windowStart = now
		rl.requestCount = 1
		rl.mu.Unlock()
		return nil
	}

	// quota left in the current window
	if rl.requestCount < rl.maxRequests {
		rl.requestCount++
		rl.mu.Unlock()
		return nil
	}

	// quota exhausted: wait out the remainder of the window
	wait := rl.window - elapsed
	rl.mu.Unlock()

	log.Printf("⏳ [%s] Rate limit hit (%d req/%v). Waiting %v...", rl.name, rl.maxRequests, rl.window, wait.Round(time.Millisecond))

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	rl.mu.Lock()
	rl.windowStart = time.Now()
	rl.requestCount = 1
	rl.mu.Unlock()
	return nil
}
