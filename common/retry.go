package common

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryForever repeatedly executes fn with a constant delay between attempts
// until fn returns nil or ctx is done.
func RetryForever(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	return retry.Do(ctx, retry.NewConstant(interval), func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}

// RetryWithBackoff executes fn with exponential backoff, giving up after
// maxRetries attempts.
func RetryWithBackoff(
	ctx context.Context, base time.Duration, maxRetries uint64, fn func(context.Context) error,
) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}
