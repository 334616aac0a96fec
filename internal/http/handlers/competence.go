package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/http/response"
	"github.com/aneslog/aneslog-backend/internal/services"
)

type CompetenceHandler struct {
	competenceService services.CompetenceService
}

func NewCompetenceHandler(competenceService services.CompetenceService) *CompetenceHandler {
	return &CompetenceHandler{competenceService: competenceService}
}

func (h *CompetenceHandler) pairParams(c *gin.Context) (userID, procedureID uuid.UUID, ok bool) {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	procedureID, err = uuid.Parse(c.Param("procedureID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, procedureID, true
}

// POST /api/competence/:userID/:procedureID/lock
func (h *CompetenceHandler) Lock(c *gin.Context) {
	userID, procedureID, ok := h.pairParams(c)
	if !ok {
		return
	}
	rec, err := h.competenceService.Lock(c.Request.Context(), userID, procedureID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"competence": rec})
}

// POST /api/competence/:userID/:procedureID/unlock
func (h *CompetenceHandler) Unlock(c *gin.Context) {
	userID, procedureID, ok := h.pairParams(c)
	if !ok {
		return
	}
	rec, err := h.competenceService.Unlock(c.Request.Context(), userID, procedureID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"competence": rec})
}

// POST /api/competence/:userID/:procedureID/predeclare
func (h *CompetenceHandler) PreDeclare(c *gin.Context) {
	userID, procedureID, ok := h.pairParams(c)
	if !ok {
		return
	}
	rec, err := h.competenceService.PreDeclare(c.Request.Context(), userID, procedureID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"competence": rec})
}
