package tag

import (
	"context"

	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/repository"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
)

type GetTagUseCase struct {
	tagRepo repository.TagRepository
}

func NewGetTagUseCase(tagRepo repository.TagRepository) *GetTagUseCase {
	return &GetTagUseCase{tagRepo: tagRepo}
}

func (uc *GetTagUseCase) Execute(ctx context.Context, tagID uuid.UUID) (*entity.Tag, error) {
	return uc.tagRepo.FindByID(ctx, tagID)
}

type ListDesignerTagsUseCase struct {
	tagRepo repository.TagRepository
}

func NewListDesignerTagsUseCase(tagRepo repository.TagRepository) *ListDesignerTagsUseCase {
	return &ListDesignerTagsUseCase{tagRepo: tagRepo}
}

// Execute возвращает теги дизайнера; пустая category означает все категории.
func (uc *ListDesignerTagsUseCase) Execute(ctx context.Context, designerID uuid.UUID, category string) ([]*entity.Tag, error) {
	var filter *valueobject.TagCategory
	if category != "" {
		c, err := valueobject.NewTagCategory(category)
		if err != nil {
			return nil, err
		}
		filter = &c
	}
	return uc.tagRepo.FindByDesigner(ctx, designerID, filter)
}
