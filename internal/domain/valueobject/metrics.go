package valueobject

import (
	"math"

	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

const (
	MinRating = 0.0
	MaxRating = 5.0

	QualifyingConsumerRating = 4.0
	QualifyingDesignerRating = 4.0
	QualifyingEngagement     = 100
)

// ProjectQualityMetrics оценки завершённого проекта. Не хранится, используется
// один раз при расчёте прогресса.
type ProjectQualityMetrics struct {
	ConsumerRating float64
	DesignerRating float64
	Engagement     int64
}

func NewProjectQualityMetrics(consumerRating, designerRating float64, engagement int64) (ProjectQualityMetrics, error) {
	m := ProjectQualityMetrics{
		ConsumerRating: consumerRating,
		DesignerRating: designerRating,
		Engagement:     engagement,
	}
	if err := m.Validate(); err != nil {
		return ProjectQualityMetrics{}, err
	}
	return m, nil
}

func (m ProjectQualityMetrics) Validate() error {
	if !validRating(m.ConsumerRating) {
		return apperror.New(apperror.ErrCodeValidation, "оценка покупателя должна быть от 0 до 5")
	}
	if !validRating(m.DesignerRating) {
		return apperror.New(apperror.ErrCodeValidation, "оценка дизайнера должна быть от 0 до 5")
	}
	if m.Engagement < 0 {
		return apperror.New(apperror.ErrCodeValidation, "вовлечённость не может быть отрицательной")
	}
	return nil
}

// Qualifies проверяет, засчитывается ли проект в прогресс тега.
func (m ProjectQualityMetrics) Qualifies() bool {
	return m.ConsumerRating >= QualifyingConsumerRating &&
		m.DesignerRating >= QualifyingDesignerRating &&
		m.Engagement >= QualifyingEngagement
}

func validRating(r float64) bool {
	return !math.IsNaN(r) && r >= MinRating && r <= MaxRating
}
