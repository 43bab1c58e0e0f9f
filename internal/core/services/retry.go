package services

import (
	"context"
	"time"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/cenkalti/backoff/v5"
)

// RetryConfig bounds the retries of transient storage failures.
type RetryConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns the retry policy used when none is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     4,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// retryTransient runs op until it succeeds, fails with a non-transient error, or the attempts run out.
func retryTransient[T any](ctx context.Context, cfg RetryConfig, op func() (T, error)) (T, error) {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		b.MaxInterval = cfg.MaxInterval
	}

	return backoff.Retry(ctx, func() (T, error) {
		result, err := op()
		if err != nil && !apperrors.IsRetryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(cfg.MaxAttempts))
}
