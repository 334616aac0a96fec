package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/http/response"
	"github.com/aneslog/aneslog-backend/internal/services"
)

type ThresholdHandler struct {
	thresholdService services.ThresholdService
}

func NewThresholdHandler(thresholdService services.ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{thresholdService: thresholdService}
}

// GET /api/thresholds
func (h *ThresholdHandler) List(c *gin.Context) {
	rows, err := h.thresholdService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"thresholds": rows})
}

// PUT /api/thresholds/:procedureID
// body: { "min_procedures": 5, "max_procedures": 20 }
func (h *ThresholdHandler) Upsert(c *gin.Context) {
	procedureID, err := uuid.Parse(c.Param("procedureID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
		return
	}
	var req struct {
		MinProcedures int `json:"min_procedures"`
		MaxProcedures int `json:"max_procedures"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.thresholdService.Upsert(c.Request.Context(), procedureID, req.MinProcedures, req.MaxProcedures)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"threshold": row})
}

// DELETE /api/thresholds/:procedureID
func (h *ThresholdHandler) Delete(c *gin.Context) {
	procedureID, err := uuid.Parse(c.Param("procedureID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
		return
	}
	if err := h.thresholdService.Delete(c.Request.Context(), procedureID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
