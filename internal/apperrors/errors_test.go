package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("loading booking: %w", &NotFoundError{Resource: "Booking", ID: "7"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "loading booking: Booking 7 not found", err.Error())
}

func TestTimeoutUnwrapsToDeadline(t *testing.T) {
	err := &TimeoutError{Method: "GET", URL: "http://x/api", Timeout: 0}
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsOffline(err))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&NetworkError{Err: errors.New("connection refused")}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: 503}))
	assert.True(t, IsRetryable(errors.New("unclassified")))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: 409}))
	assert.False(t, IsRetryable(NewValidationError("amount", "too small")))
	assert.False(t, IsRetryable(&NotFoundError{Resource: "Invoice"}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(nil))
}

func TestFromStatus(t *testing.T) {
	var v *ValidationError
	assert.ErrorAs(t, FromStatus(422, "Booking", "", "workdate required"), &v)
	assert.Equal(t, "workdate required", v.Message)

	assert.ErrorIs(t, FromStatus(404, "Booking", "3", ""), ErrNotFound)

	var h *HTTPError
	assert.ErrorAs(t, FromStatus(500, "Booking", "", "boom"), &h)
	assert.Equal(t, 500, h.StatusCode)
}
