package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caelus-market/caelus-backend/internal/interface/http/dto"
	"github.com/caelus-market/caelus-backend/internal/interface/http/response"
	"github.com/caelus-market/caelus-backend/internal/usecase/tag"
)

type TagHandler struct {
	createTagUC     *tag.CreateTagUseCase
	getTagUC        *tag.GetTagUseCase
	listTagsUC      *tag.ListDesignerTagsUseCase
	recordProjectUC *tag.RecordProjectUseCase
}

func NewTagHandler(
	createTagUC *tag.CreateTagUseCase,
	getTagUC *tag.GetTagUseCase,
	listTagsUC *tag.ListDesignerTagsUseCase,
	recordProjectUC *tag.RecordProjectUseCase,
) *TagHandler {
	return &TagHandler{
		createTagUC:     createTagUC,
		getTagUC:        getTagUC,
		listTagsUC:      listTagsUC,
		recordProjectUC: recordProjectUC,
	}
}

// CreateTag POST /api/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createTagUC.Execute(c.Request.Context(), tag.CreateTagInput{
		DesignerID: userID,
		Role:       getRole(c),
		Category:   req.Category,
		Value:      req.Value,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTagResponse(created))
}

// GetTag GET /api/tags/:tagId
func (h *TagHandler) GetTag(c *gin.Context) {
	tagID, ok := parseUUIDParam(c, "tagId")
	if !ok {
		response.BadRequest(c, "некорректный ID тега")
		return
	}

	found, err := h.getTagUC.Execute(c.Request.Context(), tagID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTagResponse(found))
}

// ListDesignerTags GET /api/designers/:id/tags
func (h *TagHandler) ListDesignerTags(c *gin.Context) {
	designerID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "некорректный ID дизайнера")
		return
	}

	tags, err := h.listTagsUC.Execute(c.Request.Context(), designerID, c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTagResponses(tags))
}

// ListMyTags GET /api/tags/my
func (h *TagHandler) ListMyTags(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	tags, err := h.listTagsUC.Execute(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTagResponses(tags))
}

// RecordProject POST /api/tags/:tagId/progress
func (h *TagHandler) RecordProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	tagID, ok := parseUUIDParam(c, "tagId")
	if !ok {
		response.BadRequest(c, "некорректный ID тега")
		return
	}

	var req dto.RecordProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные метрики проекта")
		return
	}

	result, err := h.recordProjectUC.Execute(c.Request.Context(), tag.RecordProjectInput{
		DesignerID: userID,
		TagID:      tagID,
		Metrics:    req.Metrics(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProgressResponse(result))
}
