// Package retry wraps transient I/O calls in a configurable
// retry-with-backoff policy shared by every outbound call site.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls how many times an operation runs and how the delay
// between attempts grows.
type Config struct {
	Attempts     int
	InitialDelay time.Duration
	Factor       float64
}

// DefaultConfig matches the policy applied to notification and other
// outbound HTTP calls: three attempts, 500ms initial delay, doubling.
var DefaultConfig = Config{
	Attempts:     3,
	InitialDelay: 500 * time.Millisecond,
	Factor:       2.0,
}

// Do runs op until it succeeds, attempts are exhausted, or ctx is
// cancelled. The context error wins when cancellation and operation
// failure race.
func Do(ctx context.Context, cfg Config, op func() error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Factor < 1 {
		cfg.Factor = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = op(); lastErr == nil {
			return nil
		}

		if attempt == cfg.Attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * cfg.Factor)
	}

	return fmt.Errorf("after %d attempts: %w", cfg.Attempts, lastErr)
}
