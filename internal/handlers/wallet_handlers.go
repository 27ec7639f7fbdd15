package handlers

import (
	"net/http"

	"homecare_client/internal/middleware"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TopUpRequest carries the amount as typed by the user, e.g. "200.000".
type TopUpRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type WalletHandler struct {
	walletService services.WalletService
}

func NewWalletHandler(ws services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: ws}
}

// GetWallet handles GET /wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	overview, err := h.walletService.GetWallet(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "GetWallet")
		return
	}
	utils.RespondOK(c, http.StatusOK, overview, false)
}

// ValidateTopUp handles POST /wallet/topup/validate.
func (h *WalletHandler) ValidateTopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	quote, err := h.walletService.ValidateTopUp(req.Amount)
	if err != nil {
		respondServiceError(c, err, "ValidateTopUp")
		return
	}
	utils.RespondOK(c, http.StatusOK, quote, false)
}
