package db

import (
	"context"
	"fmt"
	"time"

	"salescrm_backend/platform/logger"
)

// WithRetry calls fn up to attempts times, sleeping attempt² × baseDelay
// between failures. It stops early when ctx is done.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if log != nil {
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)
		}

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*attempt) * baseDelay):
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
