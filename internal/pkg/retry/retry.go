// Package retry is the shared retry-with-backoff helper used by the write
// adapters' read-back confirmation and the guarantor's create-then-fetch
// race handling.
package retry

import (
	"context"
	"time"
)

type Config struct {
	Attempts   int           // total attempts, minimum 1
	Initial    time.Duration // delay before the second attempt
	Multiplier float64       // delay growth factor, minimum 1
}

// Confirm is the policy for read-back after an ambiguous write:
// 3 attempts, 500ms initial delay, doubling.
var Confirm = Config{Attempts: 3, Initial: 500 * time.Millisecond, Multiplier: 2}

// Do runs op until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned; ctx cancellation wins over the last op error.
func Do(ctx context.Context, cfg Config, op func(context.Context) error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}

	delay := cfg.Initial
	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * cfg.Multiplier)
		}
		if err = op(ctx); err == nil {
			return nil
		}
	}
	return err
}
