package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"wrapped service sentinel", fmt.Errorf("%w: ID 5", services.ErrBookingNotFound), http.StatusNotFound, utils.ErrCodeNotFound},
		{"cancel too late", services.ErrCancelTooLate, http.StatusConflict, utils.ErrCodeConflict},
		{"relative", fmt.Errorf("%w: ID 7", services.ErrRelativeNotFound), http.StatusNotFound, utils.ErrCodeNotFound},
		{"zone", fmt.Errorf("%w: ID 99", services.ErrZoneNotFound), http.StatusNotFound, utils.ErrCodeNotFound},
		{"lead time", services.ErrLeadTimeTooShort, http.StatusUnprocessableEntity, utils.ErrCodeValidationFailed},
		{"client validation", apperrors.NewValidationError("email", "bad"), http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{"upstream not found", &apperrors.NotFoundError{Resource: "Booking", ID: "9"}, http.StatusNotFound, utils.ErrCodeNotFound},
		{"timeout", &apperrors.TimeoutError{Method: "GET", URL: "/x", Timeout: time.Second}, http.StatusGatewayTimeout, utils.ErrCodeUpstreamTimeout},
		{"network", &apperrors.NetworkError{Method: "GET", URL: "/x", Err: errors.New("refused")}, http.StatusServiceUnavailable, utils.ErrCodeUpstreamUnavailable},
		{"upstream 500", fmt.Errorf("loading: %w", &apperrors.HTTPError{StatusCode: 500}), http.StatusBadGateway, utils.ErrCodeUpstreamError},
		{"unknown", context.Canceled, http.StatusInternalServerError, utils.ErrCodeInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := toAPIError(tt.err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestToAPIError_TimeoutIsNotReportedAsNetwork(t *testing.T) {
	err := fmt.Errorf("login: %w", &apperrors.TimeoutError{Method: "POST", URL: "/api/accounts/login", Timeout: 10 * time.Second})

	assert.Equal(t, utils.ErrCodeUpstreamTimeout, toAPIError(err).Code)
}

func TestToAPIError_CancelTooLateFollowsConfiguredWindow(t *testing.T) {
	err := fmt.Errorf("%w: %s left", services.ErrCancelTooLate, 5*time.Hour)

	apiErr := toAPIError(err)
	assert.NotContains(t, apiErr.Message, "2 giờ")
	assert.Contains(t, apiErr.Details, "5h0m0s left")
}
