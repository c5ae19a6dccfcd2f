package database

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// withRetry runs op up to attempts times with exponential backoff, pinging the
// pool before each retry so broken connections are replaced. Context errors
// are returned untouched; anything else ends as ErrStoreUnavailable.
func (s *sqlxStore) withRetry(ctx context.Context, op string, attempts int, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	interval := s.retryBackoff

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, interval); err != nil {
				return err
			}
			interval *= 2

			if pingErr := s.db.PingContext(ctx); pingErr != nil {
				s.logger.DebugContext(ctx, "Ping before retry failed", "operation", op, "error", pingErr)
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		s.logger.WarnContext(ctx, "Store operation failed",
			"operation", op, "attempt", attempt, "max_attempts", attempts, "error", err)
	}

	return fmt.Errorf("%w: %s failed after %d attempts: %w", ErrStoreUnavailable, op, attempts, lastErr)
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
