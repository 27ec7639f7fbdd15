package handlers

import (
	"net/http"

	"homecare_client/internal/middleware"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CareProfileHandler struct {
	careProfileService services.CareProfileService
	accountService     services.AccountService
}

func NewCareProfileHandler(cs services.CareProfileService, as services.AccountService) *CareProfileHandler {
	return &CareProfileHandler{careProfileService: cs, accountService: as}
}

// GetMe handles GET /account/me.
func (h *CareProfileHandler) GetMe(c *gin.Context) {
	me, err := h.accountService.Me(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "GetMe")
		return
	}
	utils.RespondOK(c, http.StatusOK, me, false)
}

// GetCareProfiles handles GET /care-profiles for the session account.
func (h *CareProfileHandler) GetCareProfiles(c *gin.Context) {
	views, err := h.careProfileService.ListCareProfiles(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "GetCareProfiles")
		return
	}
	utils.RespondOK(c, http.StatusOK, views, false)
}

func (h *CareProfileHandler) CreateCareProfile(c *gin.Context) {
	var req services.CareProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	profile, err := h.careProfileService.CreateCareProfile(c.Request.Context(), middleware.AccountID(c), req)
	if err != nil {
		respondServiceError(c, err, "CreateCareProfile")
		return
	}
	utils.RespondOK(c, http.StatusCreated, profile, false)
}

func (h *CareProfileHandler) UpdateCareProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CareProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	profile, err := h.careProfileService.UpdateCareProfile(c.Request.Context(), actingAccount(c), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCareProfile")
		return
	}
	utils.RespondOK(c, http.StatusOK, profile, false)
}

func (h *CareProfileHandler) DeleteCareProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.careProfileService.DeleteCareProfile(c.Request.Context(), actingAccount(c), id); err != nil {
		respondServiceError(c, err, "DeleteCareProfile")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"careProfileID": id, "deleted": true}, false)
}

// AddRelative handles POST /care-profiles/:id/relatives.
func (h *CareProfileHandler) AddRelative(c *gin.Context) {
	careProfileID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.RelativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	relative, err := h.careProfileService.AddRelative(c.Request.Context(), actingAccount(c), careProfileID, req)
	if err != nil {
		respondServiceError(c, err, "AddRelative")
		return
	}
	utils.RespondOK(c, http.StatusCreated, relative, false)
}

func (h *CareProfileHandler) UpdateRelative(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.RelativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	relative, err := h.careProfileService.UpdateRelative(c.Request.Context(), actingAccount(c), id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateRelative")
		return
	}
	utils.RespondOK(c, http.StatusOK, relative, false)
}

func (h *CareProfileHandler) DeleteRelative(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.careProfileService.DeleteRelative(c.Request.Context(), actingAccount(c), id); err != nil {
		respondServiceError(c, err, "DeleteRelative")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"relativeID": id, "deleted": true}, false)
}

// GetZones handles GET /zones.
func (h *CareProfileHandler) GetZones(c *gin.Context) {
	zones, err := h.careProfileService.ListZones(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetZones")
		return
	}
	utils.RespondOK(c, http.StatusOK, zones, false)
}
