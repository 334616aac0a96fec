package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/http/response"
	"github.com/aneslog/aneslog-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /api/catalog
func (h *CatalogHandler) Get(c *gin.Context) {
	view, err := h.catalogService.Catalog(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/catalog/categories
// body: { "name": "..." }
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": created})
}

// POST /api/catalog/procedures
func (h *CatalogHandler) CreateProcedure(c *gin.Context) {
	var req services.CreateProcedureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.catalogService.CreateProcedure(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"procedure": created})
}

// PATCH /api/catalog/procedures/:procedureID/complexity
// body: { "complexity": "simple" | "complex" }
func (h *CatalogHandler) SetComplexity(c *gin.Context) {
	procedureID, err := uuid.Parse(c.Param("procedureID"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_procedure_id", err)
		return
	}
	var req struct {
		Complexity string `json:"complexity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := h.catalogService.SetComplexity(c.Request.Context(), procedureID, domain.Complexity(req.Complexity))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"procedure": updated})
}
