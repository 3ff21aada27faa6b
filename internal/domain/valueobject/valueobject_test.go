package valueobject

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

func TestTierOrder(t *testing.T) {
	next, ok := TierBaseline.Next()
	require.True(t, ok)
	assert.Equal(t, TierGold, next)

	next, ok = TierDiamond.Next()
	require.True(t, ok)
	assert.Equal(t, TierCosmic, next)

	_, ok = TierCosmic.Next()
	assert.False(t, ok)
	assert.True(t, TierCosmic.IsTerminal())

	assert.True(t, TierGold.Before(TierDiamond))
	assert.False(t, TierCosmic.Before(TierBaseline))

	_, err := NewTier("platinum")
	assert.True(t, apperror.IsValidation(err))
}

func TestNewTagCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := NewTagCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := NewTagCategory("colour")
	assert.True(t, apperror.IsValidation(err))
}

func TestThreshold(t *testing.T) {
	ten := FiniteThreshold(10)
	assert.False(t, ten.ReachedBy(9))
	assert.True(t, ten.ReachedBy(10))
	assert.InDelta(t, 90.0, ten.Progress(9), 1e-9)
	assert.Equal(t, 100.0, ten.Progress(14))

	inf := InfiniteThreshold()
	assert.False(t, inf.ReachedBy(math.MaxInt32))
	assert.Equal(t, 100.0, inf.Progress(0))
	assert.Nil(t, inf.Ptr())
	assert.Equal(t, inf, ThresholdFromPtr(nil))
	assert.Equal(t, ten, ThresholdFromPtr(ten.Ptr()))

	raw, err := json.Marshal(struct {
		A Threshold `json:"a"`
		B Threshold `json:"b"`
	}{A: ten, B: inf})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":10,"b":null}`, string(raw))
}

func TestProjectQualityMetrics(t *testing.T) {
	cases := []struct {
		name      string
		m         ProjectQualityMetrics
		valid     bool
		qualifies bool
	}{
		{"all at boundary", ProjectQualityMetrics{4.0, 4.0, 100}, true, true},
		{"typical good", ProjectQualityMetrics{4.5, 4.8, 150}, true, true},
		{"low consumer", ProjectQualityMetrics{3.99, 5, 1000}, true, false},
		{"low designer", ProjectQualityMetrics{5, 3.9, 1000}, true, false},
		{"low engagement", ProjectQualityMetrics{5, 5, 99}, true, false},
		{"zeros", ProjectQualityMetrics{0, 0, 0}, true, false},
		{"consumer above 5", ProjectQualityMetrics{5.1, 4, 100}, false, false},
		{"designer negative", ProjectQualityMetrics{4, -0.1, 100}, false, false},
		{"nan rating", ProjectQualityMetrics{math.NaN(), 4, 100}, false, false},
		{"negative engagement", ProjectQualityMetrics{4, 4, -1}, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.m.Validate()
			if !tc.valid {
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.qualifies, tc.m.Qualifies())
		})
	}
}
