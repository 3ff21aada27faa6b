package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caelus-market/caelus-backend/internal/domain/catalog"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/interface/http/dto"
	"github.com/caelus-market/caelus-backend/internal/interface/http/response"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(catalog *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListSpecializations GET /api/catalog/specializations?category=
func (h *CatalogHandler) ListSpecializations(c *gin.Context) {
	raw := c.Query("category")
	if raw == "" {
		response.Success(c, dto.ToSpecializationResponses(h.catalog.All()))
		return
	}

	category, err := valueobject.NewTagCategory(raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToSpecializationResponses(h.catalog.ByCategory(category)))
}

// GetSpecialization GET /api/catalog/specializations/:id
func (h *CatalogHandler) GetSpecialization(c *gin.Context) {
	item, ok := h.catalog.Lookup(c.Param("id"))
	if !ok {
		response.NotFound(c, "специализация не найдена")
		return
	}

	response.Success(c, dto.SpecializationResponse(item))
}
