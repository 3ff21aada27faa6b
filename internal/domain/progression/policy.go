package progression

import (
	"fmt"

	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
)

// ThresholdPolicy вычисляет порог перехода с уровня tier на следующий.
type ThresholdPolicy interface {
	Name() string
	Threshold(tier valueobject.Tier, baseThreshold int) valueobject.Threshold
}

const (
	PolicyMultiplicative = "multiplicative"
	PolicyFlat           = "flat"
)

// MultiplicativePolicy: Gold при base, Diamond при base×2, Cosmic при base×4.
type MultiplicativePolicy struct{}

func (MultiplicativePolicy) Name() string { return PolicyMultiplicative }

func (MultiplicativePolicy) Threshold(tier valueobject.Tier, baseThreshold int) valueobject.Threshold {
	switch tier {
	case valueobject.TierBaseline:
		return valueobject.FiniteThreshold(baseThreshold)
	case valueobject.TierGold:
		return valueobject.FiniteThreshold(baseThreshold * 2)
	case valueobject.TierDiamond:
		return valueobject.FiniteThreshold(baseThreshold * 4)
	default:
		return valueobject.InfiniteThreshold()
	}
}

// FlatPolicy: фиксированные пороги 10/25/50 без учёта специализации.
type FlatPolicy struct{}

const (
	FlatGoldThreshold    = 10
	FlatDiamondThreshold = 25
	FlatCosmicThreshold  = 50
)

func (FlatPolicy) Name() string { return PolicyFlat }

func (FlatPolicy) Threshold(tier valueobject.Tier, _ int) valueobject.Threshold {
	switch tier {
	case valueobject.TierBaseline:
		return valueobject.FiniteThreshold(FlatGoldThreshold)
	case valueobject.TierGold:
		return valueobject.FiniteThreshold(FlatDiamondThreshold)
	case valueobject.TierDiamond:
		return valueobject.FiniteThreshold(FlatCosmicThreshold)
	default:
		return valueobject.InfiniteThreshold()
	}
}

// PolicyByName возвращает политику по имени из конфигурации.
func PolicyByName(name string) (ThresholdPolicy, error) {
	switch name {
	case "", PolicyMultiplicative:
		return MultiplicativePolicy{}, nil
	case PolicyFlat:
		return FlatPolicy{}, nil
	default:
		return nil, fmt.Errorf("progression: неизвестная политика порогов %q", name)
	}
}
