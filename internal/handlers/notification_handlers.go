package handlers

import (
	"net/http"

	"homecare_client/internal/middleware"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// GetNotifications handles GET /notifications.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	feed, err := h.notificationService.List(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "GetNotifications")
		return
	}
	utils.RespondOK(c, http.StatusOK, feed, false)
}

// MarkAsRead handles PUT /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), actingAccount(c), id); err != nil {
		respondServiceError(c, err, "MarkAsRead")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"notificationID": id, "isRead": true}, false)
}
