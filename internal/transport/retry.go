package transport

import (
	"context"
	"errors"
	"time"

	"homecare_client/internal/apperrors"

	"github.com/rs/zerolog/log"
)

// RetryPolicy repeats a failed read a bounded number of times with a fixed
// delay. Writes must not go through it.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultRetryPolicy is 2 retries, 1s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Delay: time.Second}
}

// NoRetry runs the call exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// retries are used up. Waiting between attempts stops when ctx is done.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Debug().Err(err).Int("attempt", attempt).Dur("delay", p.Delay).Msg("Retrying upstream read")
			timer := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(err, ctx.Err())
			case <-timer.C:
			}
		}
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) {
			return err
		}
	}
	return err
}

// Retry is Do for calls that return a value.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}
