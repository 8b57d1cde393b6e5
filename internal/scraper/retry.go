package scraper

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	defaultMaxAttempts = 3
	maxBackoff         = 10 * time.Second
)

// backoffUnit is the base of the exponential backoff. Variable so tests can
// shrink it.
var backoffUnit = time.Second

// WithRetry runs op up to maxAttempts times, sleeping between failures with
// exponential backoff (1s·2^attempt, capped at 10s). Every failure is treated
// as retryable — the executor does not try to tell a dead board apart from a
// slow one. If all attempts fail, the last error is returned wrapped with the
// attempt count.
func WithRetry(ctx context.Context, label string, maxAttempts int, op func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if attempt < maxAttempts {
			backoff := backoffUnit << attempt
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			log.Printf("⚠️ [%s] Attempt %d/%d failed: %v. Retrying in %v...", label, attempt, maxAttempts, lastErr, backoff)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", label, maxAttempts, lastErr)
}
