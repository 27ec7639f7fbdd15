package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"homecare_client/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_StopsOnSuccess(t *testing.T) {
	calls := 0
	p := RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}

	v, err := Retry(context.Background(), p, func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, &apperrors.NetworkError{Err: errors.New("reset")}
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestRetryPolicy_BoundedAttempts(t *testing.T) {
	calls := 0
	p := RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &apperrors.HTTPError{StatusCode: 502}
	})

	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_DoesNotRetryDeterministicFailures(t *testing.T) {
	calls := 0
	p := RetryPolicy{MaxRetries: 5, Delay: time.Millisecond}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &apperrors.NotFoundError{Resource: "Notification"}
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_FixedDelay(t *testing.T) {
	p := RetryPolicy{MaxRetries: 2, Delay: 20 * time.Millisecond}
	start := time.Now()

	_ = p.Do(context.Background(), func(ctx context.Context) error {
		return &apperrors.NetworkError{Err: errors.New("down")}
	})

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRetryPolicy_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxRetries: 3, Delay: time.Hour}
	calls := 0

	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return &apperrors.NetworkError{Err: errors.New("down")}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNoRetry_SingleAttempt(t *testing.T) {
	calls := 0
	_ = NoRetry().Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &apperrors.NetworkError{Err: errors.New("down")}
	})
	assert.Equal(t, 1, calls)
}
