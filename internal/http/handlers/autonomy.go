package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/http/response"
	"github.com/aneslog/aneslog-backend/internal/requestdata"
	"github.com/aneslog/aneslog-backend/internal/services"
)

type AutonomyHandler struct {
	autonomyService services.AutonomyService
}

func NewAutonomyHandler(autonomyService services.AutonomyService) *AutonomyHandler {
	return &AutonomyHandler{autonomyService: autonomyService}
}

// GET /api/autonomy/curve?user_id=...&procedure_id=...
// user_id defaults to the caller.
func (h *AutonomyHandler) Curve(c *gin.Context) {
	procedureID, err := uuid.Parse(c.Query("procedure_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
		return
	}

	userID := uuid.Nil
	if raw := c.Query("user_id"); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
			return
		}
	} else if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}
	if userID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_user_id", fmt.Errorf("user_id is required"))
		return
	}

	curve, err := h.autonomyService.Curve(c.Request.Context(), userID, procedureID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"curve": curve})
}

// GET /api/autonomy/matrix?category_id=...
func (h *AutonomyHandler) Matrix(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		categoryID = &id
	}
	view, err := h.autonomyService.Matrix(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"matrix": view})
}

// GET /api/autonomy/comparison?procedure_id=...
func (h *AutonomyHandler) Comparison(c *gin.Context) {
	procedureID, err := uuid.Parse(c.Query("procedure_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
		return
	}
	rows, err := h.autonomyService.Comparison(c.Request.Context(), procedureID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comparison": rows})
}

// GET /api/autonomy/alerts
func (h *AutonomyHandler) Alerts(c *gin.Context) {
	alerts, err := h.autonomyService.Alerts(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": alerts})
}
