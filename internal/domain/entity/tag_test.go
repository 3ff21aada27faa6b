package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

func TestNewTag(t *testing.T) {
	designerID := uuid.New()
	tag, err := NewTag(designerID, valueobject.CategoryStyle, "minimalist", 5, valueobject.FiniteThreshold(5))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, tag.ID)
	assert.Equal(t, valueobject.TierBaseline, tag.Tier)
	assert.Equal(t, 0, tag.ProjectsCompleted)
	assert.Equal(t, 1, tag.Version)
	assert.Nil(t, tag.LastPromotedAt)
	assert.True(t, tag.IsOwnedBy(designerID))
	assert.False(t, tag.IsOwnedBy(uuid.New()))
	assert.Equal(t, 0.0, tag.ProgressPercent())
}

func TestNewTag_Validation(t *testing.T) {
	first := valueobject.FiniteThreshold(5)

	_, err := NewTag(uuid.Nil, valueobject.CategoryStyle, "minimalist", 5, first)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewTag(uuid.New(), "colour", "minimalist", 5, first)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewTag(uuid.New(), valueobject.CategoryStyle, "", 5, first)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewTag(uuid.New(), valueobject.CategoryStyle, "minimalist", 0, first)
	assert.True(t, apperror.IsValidation(err))
}

func TestTag_ProgressAndTimestamps(t *testing.T) {
	tag, err := NewTag(uuid.New(), valueobject.CategoryFabricSpecialty, "denim", 6, valueobject.FiniteThreshold(6))
	require.NoError(t, err)

	tag.ProjectsCompleted = 3
	assert.InDelta(t, 50.0, tag.ProgressPercent(), 1e-9)

	tag.Tier = valueobject.TierCosmic
	tag.NextTierThreshold = valueobject.InfiniteThreshold()
	tag.ProjectsCompleted = 40
	assert.Equal(t, 100.0, tag.ProgressPercent())

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tag.MarkPromoted(at)
	require.NotNil(t, tag.LastPromotedAt)
	assert.Equal(t, at, *tag.LastPromotedAt)
	assert.Equal(t, at, tag.UpdatedAt)

	later := at.Add(time.Hour)
	tag.Touch(later)
	assert.Equal(t, later, tag.UpdatedAt)
	assert.Equal(t, at, *tag.LastPromotedAt)
}
