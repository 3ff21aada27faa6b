package tag

import (
	"context"

	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/domain/catalog"
	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/progression"
	"github.com/caelus-market/caelus-backend/internal/domain/repository"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

// RoleDesigner роль пользователя, которому разрешено заводить теги.
const RoleDesigner = "designer"

type CreateTagInput struct {
	DesignerID uuid.UUID
	Role       string
	Category   string
	Value      string
}

type CreateTagUseCase struct {
	tagRepo repository.TagRepository
	catalog *catalog.Catalog
	engine  *progression.Engine
}

func NewCreateTagUseCase(tagRepo repository.TagRepository, catalog *catalog.Catalog, engine *progression.Engine) *CreateTagUseCase {
	return &CreateTagUseCase{
		tagRepo: tagRepo,
		catalog: catalog,
		engine:  engine,
	}
}

func (uc *CreateTagUseCase) Execute(ctx context.Context, input CreateTagInput) (*entity.Tag, error) {
	if input.Role != RoleDesigner {
		return nil, apperror.New(apperror.ErrCodeForbidden, "теги доступны только дизайнерам")
	}

	category, err := valueobject.NewTagCategory(input.Category)
	if err != nil {
		return nil, err
	}

	entry, err := uc.catalog.Find(category, input.Value)
	if err != nil {
		return nil, err
	}

	tag, err := entity.NewTag(input.DesignerID, category, entry.ID, entry.BaseThreshold, uc.engine.InitialThreshold(entry.BaseThreshold))
	if err != nil {
		return nil, err
	}

	if err := uc.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}
