package valueobject

import "github.com/caelus-market/caelus-backend/internal/pkg/apperror"

// Tier уровень владения специализацией.
type Tier string

const (
	TierBaseline Tier = "baseline"
	TierGold     Tier = "gold"
	TierDiamond  Tier = "diamond"
	TierCosmic   Tier = "cosmic"
)

// tierOrder фиксирует порядок уровней, переходы возможны только на следующий.
var tierOrder = []Tier{TierBaseline, TierGold, TierDiamond, TierCosmic}

func (t Tier) IsValid() bool {
	return t.Rank() >= 0
}

// Rank возвращает позицию уровня в порядке Baseline→Cosmic или -1.
func (t Tier) Rank() int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// Next возвращает следующий уровень. Для Cosmic следующего уровня нет.
func (t Tier) Next() (Tier, bool) {
	rank := t.Rank()
	if rank < 0 || rank == len(tierOrder)-1 {
		return "", false
	}
	return tierOrder[rank+1], true
}

func (t Tier) IsTerminal() bool {
	return t == TierCosmic
}

// Before сообщает, что уровень t ниже other.
func (t Tier) Before(other Tier) bool {
	return t.Rank() < other.Rank()
}

func NewTier(tier string) (Tier, error) {
	t := Tier(tier)
	if !t.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный уровень тега")
	}
	return t, nil
}
