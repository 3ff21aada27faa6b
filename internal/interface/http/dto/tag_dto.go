package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/domain/catalog"
	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/progression"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
)

type CreateTagRequest struct {
	Category string `json:"category" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

// RecordProjectRequest метрики завершённого проекта. Указатели отличают ноль от пропуска.
type RecordProjectRequest struct {
	ConsumerRating *float64 `json:"consumerRating" binding:"required"`
	DesignerRating *float64 `json:"designerRating" binding:"required"`
	Engagement     *int64   `json:"engagement" binding:"required"`
}

func (r RecordProjectRequest) Metrics() valueobject.ProjectQualityMetrics {
	return valueobject.ProjectQualityMetrics{
		ConsumerRating: *r.ConsumerRating,
		DesignerRating: *r.DesignerRating,
		Engagement:     *r.Engagement,
	}
}

type TagResponse struct {
	ID                uuid.UUID               `json:"id"`
	DesignerID        uuid.UUID               `json:"designerId"`
	Category          valueobject.TagCategory `json:"category"`
	Value             string                  `json:"value"`
	Tier              valueobject.Tier        `json:"tier"`
	ProjectsCompleted int                     `json:"projectsCompleted"`
	NextTierThreshold *int                    `json:"nextTierThreshold"`
	BaseThreshold     int                     `json:"baseThreshold"`
	ProgressPercent   float64                 `json:"progressPercent"`
	LastPromotedAt    *time.Time              `json:"lastPromotedAt"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

func ToTagResponse(tag *entity.Tag) TagResponse {
	return TagResponse{
		ID:                tag.ID,
		DesignerID:        tag.DesignerID,
		Category:          tag.Category,
		Value:             tag.Value,
		Tier:              tag.Tier,
		ProjectsCompleted: tag.ProjectsCompleted,
		NextTierThreshold: tag.NextTierThreshold.Ptr(),
		BaseThreshold:     tag.BaseThreshold,
		ProgressPercent:   tag.ProgressPercent(),
		LastPromotedAt:    tag.LastPromotedAt,
		CreatedAt:         tag.CreatedAt,
		UpdatedAt:         tag.UpdatedAt,
	}
}

func ToTagResponses(tags []*entity.Tag) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, ToTagResponse(tag))
	}
	return responses
}

type ProgressResponse struct {
	Tag             TagResponse       `json:"tag"`
	Qualified       bool              `json:"qualified"`
	Promoted        bool              `json:"promoted"`
	PromotedTo      *valueobject.Tier `json:"promotedTo,omitempty"`
	ProgressPercent float64           `json:"progressPercent"`
}

func ToProgressResponse(result progression.UpdateResult) ProgressResponse {
	return ProgressResponse{
		Tag:             ToTagResponse(&result.Tag),
		Qualified:       result.Qualified,
		Promoted:        result.Promoted(),
		PromotedTo:      result.PromotedTo,
		ProgressPercent: result.ProgressPercent,
	}
}

type SpecializationResponse struct {
	ID            string                  `json:"id"`
	Category      valueobject.TagCategory `json:"category"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	BaseThreshold int                     `json:"baseThreshold"`
}

func ToSpecializationResponses(items []catalog.Specialization) []SpecializationResponse {
	responses := make([]SpecializationResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, SpecializationResponse(item))
	}
	return responses
}
