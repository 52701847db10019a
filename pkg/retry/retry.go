package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// LogFunc is called before each backoff sleep with the failed attempt
// number, the error, and the delay before the next attempt.
type LogFunc func(attempt int, err error, nextDelay time.Duration)

// Do executes fn with exponential backoff retry logic.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return do(ctx, cfg, "", fn, nil)
}

// DoWithLog executes fn with retry and logs each failed attempt.
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn LogFunc) error {
	return do(ctx, cfg, serviceName, fn, logFn)
}

func do(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn LogFunc) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	prefix := ""
	if serviceName != "" {
		prefix = serviceName + ": "
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%sretry aborted after %d attempts: %w (last error: %v)", prefix, attempt-1, ctx.Err(), lastErr)
			}
			return fmt.Errorf("%sretry aborted: %w", prefix, ctx.Err())
		default:
		}

		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		if logFn != nil {
			logFn(attempt, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%sretry aborted after %d attempts: %w (last error: %v)", prefix, attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%smax retry attempts (%d) exceeded: %w", prefix, cfg.MaxAttempts, lastErr)
}
