package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds configuration for the retry wrapper
type RetryConfig struct {
	// MaxAttempts caps the total number of attempts, including the first
	MaxAttempts uint64

	// InitialInterval is the delay before the first retry
	InitialInterval time.Duration

	// MaxInterval caps the delay between attempts
	MaxInterval time.Duration
}

// DefaultRetryConfig returns the retry policy used for outbound HTTP calls
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Retry runs fn with exponential backoff until it succeeds, the attempt cap
// is reached, or the context is cancelled. Wrap a non-retryable error with
// backoff.Permanent to stop early.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	policy := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		policy.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		policy.MaxInterval = cfg.MaxInterval
	}

	return backoff.Retry(fn, backoff.WithContext(
		backoff.WithMaxRetries(policy, cfg.MaxAttempts-1), ctx))
}

// Permanent marks an error as non-retryable
func Permanent(err error) error {
	return backoff.Permanent(err)
}
