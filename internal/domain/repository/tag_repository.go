package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
)

// TagRepository граница хранения тегов.
//
// Save выполняет compare-and-swap по полю Version: запись обновляется только
// если сохранённая версия совпадает с tag.Version, после чего версия
// увеличивается. При расхождении возвращается apperror.ErrConcurrentUpdate.
type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error)
	FindByDesigner(ctx context.Context, designerID uuid.UUID, category *valueobject.TagCategory) ([]*entity.Tag, error)
	Save(ctx context.Context, tag *entity.Tag) error
}
