package handlers

import (
	"fmt"
	"net/http"
	"time"

	"homecare_client/internal/middleware"
	"homecare_client/internal/models"
	"homecare_client/internal/services"
	"homecare_client/pkg/format"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// actingAccount is the account ownership is checked against. Admins and
// managers act on any booking.
func actingAccount(c *gin.Context) int64 {
	switch middleware.RoleID(c) {
	case models.RoleAdmin, models.RoleManager:
		return 0
	default:
		return middleware.AccountID(c)
	}
}

// GetBookings handles GET /bookings for the session account.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	views, err := h.bookingService.BookingHistory(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "GetBookings")
		return
	}
	utils.RespondOK(c, http.StatusOK, views, false)
}

// ExportBookings handles GET /bookings/export and streams an xlsx workbook.
func (h *BookingHandler) ExportBookings(c *gin.Context) {
	data, err := h.bookingService.ExportHistory(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "ExportBookings")
		return
	}
	filename := fmt.Sprintf("lich-su-dat-lich-%s.xlsx", time.Now().In(format.Location()).Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetPaymentDetails handles GET /bookings/:id/payment. The response is flagged
// usedFallback when served from the snapshot cache.
func (h *BookingHandler) GetPaymentDetails(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.bookingService.PaymentDetails(c.Request.Context(), actingAccount(c), bookingID)
	if err != nil {
		respondServiceError(c, err, "GetPaymentDetails")
		return
	}
	utils.RespondOK(c, http.StatusOK, result.Data, result.UsedFallback)
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBooking: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondServiceError(c, err, "CreateBooking")
		return
	}
	utils.RespondOK(c, http.StatusCreated, booking, false)
}

// PayBooking handles POST /bookings/:id/pay.
func (h *BookingHandler) PayBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.bookingService.PayBooking(c.Request.Context(), actingAccount(c), bookingID)
	if err != nil {
		respondServiceError(c, err, "PayBooking")
		return
	}
	utils.RespondOK(c, http.StatusOK, invoice, false)
}

// CancelBooking handles PUT /bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.bookingService.CancelBooking(c.Request.Context(), actingAccount(c), bookingID)
	if err != nil {
		respondServiceError(c, err, "CancelBooking")
		return
	}
	utils.RespondOK(c, http.StatusOK, result, false)
}
