package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/elscan/core"
)

// maxRetryDelay caps the wait between two attempts of one skip.
const maxRetryDelay = 5 * time.Second

// retrier reruns a failed skip walk with exponential backoff.
type retrier struct {
	attempts  int
	baseDelay time.Duration
	logger    *slog.Logger
}

// delay returns the wait after failed attempt n: baseDelay * 2^(n-1), capped.
func (r retrier) delay(n int) time.Duration {
	d := r.baseDelay
	for i := 1; i < n && d < maxRetryDelay; i++ {
		d *= 2
	}
	return min(d, maxRetryDelay)
}

// do runs op for skip until it succeeds or the attempts run out.
// Integrity errors are returned at once, as is cancellation of ctx.
func (r retrier) do(ctx context.Context, skip int, op func() error) error {
	if r.attempts < 1 {
		return ErrInvalidMaxAttempts
	}

	var err error
	for n := 1; n <= r.attempts; n++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = op(); err == nil {
			if n > 1 {
				r.logger.Debug("skip succeeded after retry", "skip", skip, "attempt", n)
			}
			return nil
		}
		if errors.Is(err, core.ErrInputIntegrity) {
			return err
		}
		r.logger.Debug("skip attempt failed", "skip", skip, "attempt", n, "maxAttempts", r.attempts, "err", err)
		if n == r.attempts {
			break
		}

		timer := time.NewTimer(r.delay(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%d attempts: %w", r.attempts, err)
}
