package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

// MemoryTagRepository хранит теги в памяти процесса с той же семантикой версий,
// что и Postgres адаптер. Используется в тестах HTTP слоя и локальном запуске без БД.
type MemoryTagRepository struct {
	mu   sync.RWMutex
	tags map[uuid.UUID]entity.Tag
}

func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{tags: make(map[uuid.UUID]entity.Tag)}
}

func (r *MemoryTagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tags {
		if existing.DesignerID == tag.DesignerID && existing.Category == tag.Category && existing.Value == tag.Value {
			return apperror.ErrTagAlreadyExists
		}
	}
	r.tags[tag.ID] = *tag
	return nil
}

func (r *MemoryTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, ok := r.tags[id]
	if !ok {
		return nil, apperror.ErrTagNotFound
	}
	return &tag, nil
}

func (r *MemoryTagRepository) FindByDesigner(ctx context.Context, designerID uuid.UUID, category *valueobject.TagCategory) ([]*entity.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Tag, 0)
	for _, tag := range r.tags {
		if tag.DesignerID != designerID {
			continue
		}
		if category != nil && tag.Category != *category {
			continue
		}
		tag := tag
		result = append(result, &tag)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Value < result[j].Value
	})
	return result, nil
}

func (r *MemoryTagRepository) Save(ctx context.Context, tag *entity.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tags[tag.ID]
	if !ok {
		return apperror.ErrTagNotFound
	}
	if stored.Version != tag.Version {
		return apperror.ErrConcurrentUpdate
	}

	tag.Version++
	r.tags[tag.ID] = *tag
	return nil
}
