package handlers

import (
	"context"
	"net/http"

	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Prober checks that the backend API is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	prober Prober
}

func NewHealthHandler(p Prober) *HealthHandler {
	return &HealthHandler{prober: p}
}

// Ping answers 200 while the backend probe succeeds and 503 otherwise.
func (h *HealthHandler) Ping(c *gin.Context) {
	if err := h.prober.Ping(c.Request.Context()); err != nil {
		utils.LogWarn("Upstream probe failed: " + err.Error())
		c.JSON(http.StatusServiceUnavailable, utils.Envelope{
			Success: false,
			Data:    gin.H{"message": "pong", "upstream": "unreachable"},
			Error:   toAPIError(err),
		})
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"message": "pong", "upstream": "ok"}, false)
}
