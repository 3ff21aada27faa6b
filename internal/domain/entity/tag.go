package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

// Tag специализация дизайнера внутри одной категории с уровнем владения.
type Tag struct {
	ID                uuid.UUID
	DesignerID        uuid.UUID
	Category          valueobject.TagCategory
	Value             string
	Tier              valueobject.Tier
	ProjectsCompleted int
	NextTierThreshold valueobject.Threshold
	BaseThreshold     int
	// Version счётчик для оптимистичной блокировки при сохранении.
	Version        int
	LastPromotedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTag создаёт тег на уровне Baseline с нулевым счётчиком.
func NewTag(designerID uuid.UUID, category valueobject.TagCategory, value string, baseThreshold int, firstThreshold valueobject.Threshold) (*Tag, error) {
	if designerID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "дизайнер обязателен")
	}
	if !category.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректная категория тега")
	}
	if value == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "специализация обязательна")
	}
	if baseThreshold <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "базовый порог должен быть положительным")
	}

	now := time.Now()
	return &Tag{
		ID:                uuid.New(),
		DesignerID:        designerID,
		Category:          category,
		Value:             value,
		Tier:              valueobject.TierBaseline,
		ProjectsCompleted: 0,
		NextTierThreshold: firstThreshold,
		BaseThreshold:     baseThreshold,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (t *Tag) IsOwnedBy(designerID uuid.UUID) bool {
	return t.DesignerID == designerID
}

// ProgressPercent процент пути до следующего уровня, для Cosmic всегда 100.
func (t *Tag) ProgressPercent() float64 {
	if t.Tier.IsTerminal() {
		return 100
	}
	return t.NextTierThreshold.Progress(t.ProjectsCompleted)
}

// MarkPromoted фиксирует время повышения уровня.
func (t *Tag) MarkPromoted(at time.Time) {
	t.LastPromotedAt = &at
	t.UpdatedAt = at
}

func (t *Tag) Touch(at time.Time) {
	t.UpdatedAt = at
}
