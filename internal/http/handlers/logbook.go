package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/http/response"
	"github.com/aneslog/aneslog-backend/internal/services"
)

type LogbookHandler struct {
	logbookService services.LogbookService
}

func NewLogbookHandler(logbookService services.LogbookService) *LogbookHandler {
	return &LogbookHandler{logbookService: logbookService}
}

// GET /api/logbook?procedure_id=...
func (h *LogbookHandler) List(c *gin.Context) {
	var procedureID *uuid.UUID
	if raw := c.Query("procedure_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
			return
		}
		procedureID = &id
	}
	logs, err := h.logbookService.List(c.Request.Context(), procedureID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"logs": logs})
}

// POST /api/logbook
func (h *LogbookHandler) Create(c *gin.Context) {
	var req services.CreateLogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.logbookService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"log": created})
}

// PUT /api/logbook/:id
func (h *LogbookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req services.UpdateLogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.logbookService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"log": updated})
}

// DELETE /api/logbook/:id
func (h *LogbookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.logbookService.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/logbook/:id/validate
// body: { "success": true }
func (h *LogbookHandler) Validate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Success *bool `json:"success"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Success == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_success", fmt.Errorf("success is required"))
		return
	}
	updated, err := h.logbookService.ValidateOutcome(c.Request.Context(), id, *req.Success)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"log": updated})
}

// GET /api/logbook/stats
func (h *LogbookHandler) Stats(c *gin.Context) {
	stats, err := h.logbookService.Stats(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}
