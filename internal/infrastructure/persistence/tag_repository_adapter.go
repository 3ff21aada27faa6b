package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

const uniqueViolation = "23505"

const tagColumns = `
	id, designer_id, category, value, tier, projects_completed, next_tier_threshold,
	base_threshold, version, last_promoted_at, created_at, updated_at
`

type TagRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTagRepositoryAdapter(db *sqlx.DB) *TagRepositoryAdapter {
	return &TagRepositoryAdapter{db: db}
}

func (r *TagRepositoryAdapter) Create(ctx context.Context, tag *entity.Tag) error {
	query := `
		INSERT INTO designer_tags (id, designer_id, category, value, tier, projects_completed,
		next_tier_threshold, base_threshold, version, last_promoted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		tag.ID, tag.DesignerID, string(tag.Category), tag.Value, string(tag.Tier),
		tag.ProjectsCompleted, tag.NextTierThreshold.Ptr(), tag.BaseThreshold, tag.Version,
		tag.LastPromotedAt, tag.CreatedAt, tag.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperror.ErrTagAlreadyExists
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать тег")
	}
	return nil
}

func (r *TagRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	var row tagRow
	query := `SELECT ` + tagColumns + ` FROM designer_tags WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTagNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тег")
	}
	return row.toEntity(), nil
}

func (r *TagRepositoryAdapter) FindByDesigner(ctx context.Context, designerID uuid.UUID, category *valueobject.TagCategory) ([]*entity.Tag, error) {
	var rows []tagRow
	query := `SELECT ` + tagColumns + ` FROM designer_tags WHERE designer_id = $1`
	args := []interface{}{designerID}
	if category != nil {
		query += ` AND category = $2`
		args = append(args, string(*category))
	}
	query += ` ORDER BY category, value`

	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить теги дизайнера")
	}
	return toTagEntities(rows), nil
}

// Save обновляет тег, если версия в базе совпадает с tag.Version.
func (r *TagRepositoryAdapter) Save(ctx context.Context, tag *entity.Tag) error {
	query := `
		UPDATE designer_tags SET tier = $3, projects_completed = $4, next_tier_threshold = $5,
		last_promoted_at = $6, updated_at = $7, version = version + 1
		WHERE id = $1 AND version = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		tag.ID, tag.Version, string(tag.Tier), tag.ProjectsCompleted,
		tag.NextTierThreshold.Ptr(), tag.LastPromotedAt, tag.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить тег")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить тег")
	}
	if affected == 1 {
		tag.Version++
		return nil
	}

	// Ни одна строка не обновилась: либо тега нет, либо версия ушла вперёд.
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM designer_tags WHERE id = $1)`, tag.ID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить тег")
	}
	if !exists {
		return apperror.ErrTagNotFound
	}
	return apperror.ErrConcurrentUpdate
}

type tagRow struct {
	ID                uuid.UUID  `db:"id"`
	DesignerID        uuid.UUID  `db:"designer_id"`
	Category          string     `db:"category"`
	Value             string     `db:"value"`
	Tier              string     `db:"tier"`
	ProjectsCompleted int        `db:"projects_completed"`
	NextTierThreshold *int       `db:"next_tier_threshold"`
	BaseThreshold     int        `db:"base_threshold"`
	Version           int        `db:"version"`
	LastPromotedAt    *time.Time `db:"last_promoted_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func (t *tagRow) toEntity() *entity.Tag {
	category, _ := valueobject.NewTagCategory(t.Category)
	tier, _ := valueobject.NewTier(t.Tier)
	return &entity.Tag{
		ID:                t.ID,
		DesignerID:        t.DesignerID,
		Category:          category,
		Value:             t.Value,
		Tier:              tier,
		ProjectsCompleted: t.ProjectsCompleted,
		NextTierThreshold: valueobject.ThresholdFromPtr(t.NextTierThreshold),
		BaseThreshold:     t.BaseThreshold,
		Version:           t.Version,
		LastPromotedAt:    t.LastPromotedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func toTagEntities(rows []tagRow) []*entity.Tag {
	result := make([]*entity.Tag, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result
}
