package handlers

import (
	"net/http"

	"homecare_client/internal/models"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Login")
		return
	}
	utils.RespondOK(c, http.StatusOK, result.Data, result.UsedFallback)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Register: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	account, err := h.authService.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Register")
		return
	}
	utils.RespondOK(c, http.StatusCreated, account, false)
}
