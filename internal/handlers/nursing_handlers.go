package handlers

import (
	"net/http"

	"homecare_client/internal/middleware"
	"homecare_client/internal/services"
	"homecare_client/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NursingHandler struct {
	nursingService services.NursingService
}

func NewNursingHandler(ns services.NursingService) *NursingHandler {
	return &NursingHandler{nursingService: ns}
}

// GetAssignedTasks handles GET /nursing/tasks for the session nurse.
func (h *NursingHandler) GetAssignedTasks(c *gin.Context) {
	tasks, err := h.nursingService.AssignedTasks(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondServiceError(c, err, "GetAssignedTasks")
		return
	}
	utils.RespondOK(c, http.StatusOK, tasks, false)
}

// AssignNursing handles PUT /nursing/tasks/:taskId/assign/:nursingId.
func (h *NursingHandler) AssignNursing(c *gin.Context) {
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	nursingID, ok := pathID(c, "nursingId")
	if !ok {
		return
	}
	if err := h.nursingService.AssignNursing(c.Request.Context(), taskID, nursingID); err != nil {
		respondServiceError(c, err, "AssignNursing")
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"taskID": taskID, "nursingID": nursingID}, false)
}
