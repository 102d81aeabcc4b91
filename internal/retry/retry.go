// Package retry provides the bounded fixed-delay retry loop shared by the data providers.
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Policy bounds a retried call: at most Attempts tries, Delay between them.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Default is three attempts two seconds apart.
var Default = Policy{Attempts: 3, Delay: 2 * time.Second}

// Do calls fn until it succeeds or the policy is exhausted. Each failed attempt is
// logged at warn level under op. The last error is returned after exhaustion.
// Cancelling ctx stops waiting between attempts.
func Do(ctx context.Context, p Policy, log *zap.Logger, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if log != nil {
			log.Warn("upstream call failed",
				zap.String("op", op),
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", attempts),
				zap.Error(err))
		}
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", op, attempts, lastErr)
}
