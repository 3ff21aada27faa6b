package progression

import (
	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
)

// UpdateResult результат оценки одного завершённого проекта.
type UpdateResult struct {
	Tag             entity.Tag
	Qualified       bool
	PromotedTo      *valueobject.Tier
	ProgressPercent float64
}

func (r UpdateResult) Promoted() bool {
	return r.PromotedTo != nil
}

// Engine чистая функция прогресса тегов: без ввода-вывода и общего состояния.
// Сериализация параллельных обновлений одного тега лежит на вызывающем слое.
type Engine struct {
	policy ThresholdPolicy
}

func NewEngine(policy ThresholdPolicy) *Engine {
	if policy == nil {
		policy = MultiplicativePolicy{}
	}
	return &Engine{policy: policy}
}

func (e *Engine) Policy() ThresholdPolicy {
	return e.policy
}

// InitialThreshold порог для нового тега на уровне Baseline.
func (e *Engine) InitialThreshold(baseThreshold int) valueobject.Threshold {
	return e.policy.Threshold(valueobject.TierBaseline, baseThreshold)
}

// EvaluateProject решает, засчитывается ли проект, и применяет инкремент
// счётчика и возможное повышение уровня. Ошибка возвращается только для
// некорректных метрик.
func (e *Engine) EvaluateProject(tag entity.Tag, metrics valueobject.ProjectQualityMetrics) (UpdateResult, error) {
	if err := metrics.Validate(); err != nil {
		return UpdateResult{}, err
	}

	if !metrics.Qualifies() {
		return UpdateResult{
			Tag:             tag,
			ProgressPercent: tag.ProgressPercent(),
		}, nil
	}

	// Порог, действовавший до этой оценки.
	threshold := tag.NextTierThreshold
	tag.ProjectsCompleted++

	result := UpdateResult{Qualified: true}
	if next, ok := tag.Tier.Next(); ok && threshold.ReachedBy(tag.ProjectsCompleted) {
		tag.Tier = next
		tag.NextTierThreshold = e.policy.Threshold(next, tag.BaseThreshold)
		result.PromotedTo = &next
	}

	result.Tag = tag
	result.ProgressPercent = tag.ProgressPercent()
	return result, nil
}
