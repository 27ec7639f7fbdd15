package handlers

import (
	"errors"
	"net/http"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

// errorMapping is one service error with its response.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrorMappings = []errorMapping{
	{services.ErrInvalidCredentials, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Email/số điện thoại hoặc mật khẩu không đúng"},
	{services.ErrAccountInactive, http.StatusForbidden, utils.ErrCodeForbidden, "Tài khoản đã bị khóa"},
	{services.ErrBookingNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy lịch hẹn"},
	{services.ErrCareProfileNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy hồ sơ người được chăm sóc"},
	{services.ErrRelativeNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy người thân"},
	{services.ErrZoneNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy khu vực"},
	{services.ErrAccountNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy tài khoản"},
	{services.ErrServiceNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy dịch vụ"},
	{services.ErrWalletNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy ví"},
	{services.ErrNotificationNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy thông báo"},
	{services.ErrNursingProfileNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy hồ sơ điều dưỡng"},
	{services.ErrTaskNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy công việc"},
	{services.ErrBookingCompleted, http.StatusConflict, utils.ErrCodeConflict, "Lịch hẹn đã hoàn thành"},
	{services.ErrBookingCancelled, http.StatusConflict, utils.ErrCodeConflict, "Lịch hẹn đã bị hủy"},
	{services.ErrCancelTooLate, http.StatusConflict, utils.ErrCodeConflict, "Không thể hủy lịch đã thanh toán khi đã quá gần giờ hẹn"},
	{services.ErrBookingNotPayable, http.StatusConflict, utils.ErrCodeConflict, "Lịch hẹn không ở trạng thái chờ thanh toán"},
	{services.ErrLeadTimeTooShort, http.StatusUnprocessableEntity, utils.ErrCodeValidationFailed, "Thời gian đặt lịch quá gần, vui lòng chọn thời gian khác"},
	{services.ErrInvalidWorkdate, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Ngày giờ hẹn không hợp lệ"},
	{services.ErrEmptyBooking, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Vui lòng chọn ít nhất một dịch vụ"},
	{services.ErrInsufficientBalance, http.StatusUnprocessableEntity, utils.ErrCodeBadRequest, "Số dư ví không đủ"},
	{services.ErrRefundFailed, http.StatusBadGateway, utils.ErrCodeUpstreamError, "Đã hủy lịch nhưng hoàn tiền thất bại, vui lòng liên hệ hỗ trợ"},
	{services.ErrTokenGeneration, http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Lỗi hệ thống"},
}

// toAPIError maps service, repository and transport errors to the response
// the client sees.
func toAPIError(err error) *utils.APIError {
	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.target) {
			return utils.NewAPIError(m.status, m.code, m.message, err.Error())
		}
	}

	var validationErr *apperrors.ValidationError
	var timeoutErr *apperrors.TimeoutError
	var networkErr *apperrors.NetworkError
	var httpErr *apperrors.HTTPError
	switch {
	case errors.As(err, &validationErr):
		return utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Dữ liệu không hợp lệ", err.Error())
	case apperrors.IsNotFound(err):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Không tìm thấy dữ liệu", err.Error())
	case errors.As(err, &timeoutErr):
		return utils.NewAPIError(http.StatusGatewayTimeout, utils.ErrCodeUpstreamTimeout, "Máy chủ phản hồi quá lâu, vui lòng thử lại", err.Error())
	case errors.As(err, &networkErr):
		return utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeUpstreamUnavailable, "Không thể kết nối máy chủ", err.Error())
	case errors.As(err, &httpErr):
		return utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeUpstreamError, "Máy chủ gặp sự cố, vui lòng thử lại sau", err.Error())
	default:
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Lỗi hệ thống", "Internal error")
	}
}

// respondServiceError logs err under op and writes the mapped error envelope.
func respondServiceError(c *gin.Context, err error, op string) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		utils.LogError(err, op, map[string]interface{}{"status": apiErr.StatusCode, "path": c.FullPath()})
	} else {
		utils.LogWarn(op+": "+err.Error(), map[string]interface{}{"status": apiErr.StatusCode, "path": c.FullPath()})
	}
	utils.RespondWithError(c, apiErr)
}

// pathID parses a positive int64 path parameter, responding 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToPositiveID(c.Param(name))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid "+name+": "+err.Error())
		return 0, false
	}
	return id, true
}
