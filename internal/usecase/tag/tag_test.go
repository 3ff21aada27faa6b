package tag_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caelus-market/caelus-backend/internal/domain/catalog"
	"github.com/caelus-market/caelus-backend/internal/domain/entity"
	"github.com/caelus-market/caelus-backend/internal/domain/progression"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/metrics"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
	"github.com/caelus-market/caelus-backend/internal/usecase/tag"
)

// mockTagRepository хранит копии тегов и проверяет версию при Save,
// как это делает Postgres адаптер.
type mockTagRepository struct {
	mu              sync.Mutex
	tags            map[uuid.UUID]entity.Tag
	forcedConflicts int
	saves           int
}

func newMockTagRepository() *mockTagRepository {
	return &mockTagRepository{tags: make(map[uuid.UUID]entity.Tag)}
}

func (m *mockTagRepository) Create(ctx context.Context, t *entity.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tags {
		if existing.DesignerID == t.DesignerID && existing.Category == t.Category && existing.Value == t.Value {
			return apperror.ErrTagAlreadyExists
		}
	}
	m.tags[t.ID] = *t
	return nil
}

func (m *mockTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return nil, apperror.ErrTagNotFound
	}
	return &t, nil
}

func (m *mockTagRepository) FindByDesigner(ctx context.Context, designerID uuid.UUID, category *valueobject.TagCategory) ([]*entity.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.Tag
	for _, t := range m.tags {
		if t.DesignerID != designerID {
			continue
		}
		if category != nil && t.Category != *category {
			continue
		}
		t := t
		result = append(result, &t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result, nil
}

func (m *mockTagRepository) Save(ctx context.Context, t *entity.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.forcedConflicts > 0 {
		m.forcedConflicts--
		return apperror.ErrConcurrentUpdate
	}
	stored, ok := m.tags[t.ID]
	if !ok {
		return apperror.ErrTagNotFound
	}
	if stored.Version != t.Version {
		return apperror.ErrConcurrentUpdate
	}
	t.Version++
	m.tags[t.ID] = *t
	return nil
}

type broadcast struct {
	userID uuid.UUID
	event  string
	data   any
}

type chanNotifier struct {
	events chan broadcast
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{events: make(chan broadcast, 16)}
}

func (n *chanNotifier) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	n.events <- broadcast{userID: userID, event: event, data: data}
	return nil
}

func (n *chanNotifier) next(t *testing.T) broadcast {
	t.Helper()
	select {
	case b := <-n.events:
		return b
	case <-time.After(time.Second):
		t.Fatal("событие не доставлено")
		return broadcast{}
	}
}

var (
	qualifying    = valueobject.ProjectQualityMetrics{ConsumerRating: 4.5, DesignerRating: 4.8, Engagement: 150}
	nonQualifying = valueobject.ProjectQualityMetrics{ConsumerRating: 3.5, DesignerRating: 3.8, Engagement: 50}
	fastRetry     = tag.RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond}
)

type fixture struct {
	repo     *mockTagRepository
	engine   *progression.Engine
	metrics  *metrics.TagMetrics
	notifier *chanNotifier
	record   *tag.RecordProjectUseCase
	create   *tag.CreateTagUseCase
}

func newFixture(t *testing.T, policy progression.ThresholdPolicy, retry tag.RetryConfig) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newMockTagRepository(),
		engine:   progression.NewEngine(policy),
		metrics:  metrics.NewTagMetrics(prometheus.NewRegistry()),
		notifier: newChanNotifier(),
	}
	f.record = tag.NewRecordProjectUseCase(f.repo, f.engine, f.metrics, f.notifier, retry)
	f.create = tag.NewCreateTagUseCase(f.repo, catalog.MustDefault(), f.engine)
	return f
}

func (f *fixture) seed(t *testing.T, designerID uuid.UUID, completed int) *entity.Tag {
	t.Helper()
	created, err := f.create.Execute(context.Background(), tag.CreateTagInput{
		DesignerID: designerID,
		Role:       tag.RoleDesigner,
		Category:   string(valueobject.CategoryFabricSpecialty),
		Value:      "denim",
	})
	require.NoError(t, err)

	stored := f.repo.tags[created.ID]
	stored.ProjectsCompleted = completed
	f.repo.tags[created.ID] = stored
	return created
}

func TestCreateTagUseCase_Success(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	designerID := uuid.New()

	created, err := f.create.Execute(context.Background(), tag.CreateTagInput{
		DesignerID: designerID,
		Role:       tag.RoleDesigner,
		Category:   "style",
		Value:      "minimalist",
	})
	require.NoError(t, err)

	assert.Equal(t, designerID, created.DesignerID)
	assert.Equal(t, valueobject.TierBaseline, created.Tier)
	assert.Equal(t, 0, created.ProjectsCompleted)
	assert.Equal(t, 5, created.BaseThreshold)
	assert.Equal(t, valueobject.FiniteThreshold(5), created.NextTierThreshold)
}

func TestCreateTagUseCase_FlatPolicyThreshold(t *testing.T) {
	f := newFixture(t, progression.FlatPolicy{}, fastRetry)

	created, err := f.create.Execute(context.Background(), tag.CreateTagInput{
		DesignerID: uuid.New(),
		Role:       tag.RoleDesigner,
		Category:   "style",
		Value:      "minimalist",
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.FiniteThreshold(progression.FlatGoldThreshold), created.NextTierThreshold)
}

func TestCreateTagUseCase_Errors(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	ctx := context.Background()
	designerID := uuid.New()

	_, err := f.create.Execute(ctx, tag.CreateTagInput{DesignerID: designerID, Role: "consumer", Category: "style", Value: "minimalist"})
	assert.True(t, apperror.IsForbidden(err))

	_, err = f.create.Execute(ctx, tag.CreateTagInput{DesignerID: designerID, Role: tag.RoleDesigner, Category: "colour", Value: "minimalist"})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.create.Execute(ctx, tag.CreateTagInput{DesignerID: designerID, Role: tag.RoleDesigner, Category: "style", Value: "denim"})
	assert.ErrorIs(t, err, apperror.ErrSpecializationNotFound)

	input := tag.CreateTagInput{DesignerID: designerID, Role: tag.RoleDesigner, Category: "style", Value: "streetwear"}
	_, err = f.create.Execute(ctx, input)
	require.NoError(t, err)
	_, err = f.create.Execute(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrTagAlreadyExists)
}

func TestListDesignerTagsUseCase(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	ctx := context.Background()
	designerID := uuid.New()

	for _, in := range []tag.CreateTagInput{
		{DesignerID: designerID, Role: tag.RoleDesigner, Category: "style", Value: "bohemian"},
		{DesignerID: designerID, Role: tag.RoleDesigner, Category: "fabric_specialty", Value: "hemp"},
		{DesignerID: uuid.New(), Role: tag.RoleDesigner, Category: "style", Value: "bohemian"},
	} {
		_, err := f.create.Execute(ctx, in)
		require.NoError(t, err)
	}

	list := tag.NewListDesignerTagsUseCase(f.repo)

	all, err := list.Execute(ctx, designerID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	styles, err := list.Execute(ctx, designerID, "style")
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, "bohemian", styles[0].Value)

	_, err = list.Execute(ctx, designerID, "colour")
	assert.True(t, apperror.IsValidation(err))
}

func TestGetTagUseCase_NotFound(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	_, err := tag.NewGetTagUseCase(f.repo).Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrTagNotFound)
}

func TestRecordProjectUseCase_PromotesAndNotifies(t *testing.T) {
	f := newFixture(t, progression.FlatPolicy{}, fastRetry)
	designerID := uuid.New()
	seeded := f.seed(t, designerID, 9)

	result, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
		DesignerID: designerID,
		TagID:      seeded.ID,
		Metrics:    qualifying,
	})
	require.NoError(t, err)

	require.True(t, result.Promoted())
	assert.Equal(t, valueobject.TierGold, result.Tag.Tier)
	assert.Equal(t, 10, result.Tag.ProjectsCompleted)
	assert.InDelta(t, 40.0, result.ProgressPercent, 1e-9)
	assert.NotNil(t, result.Tag.LastPromotedAt)

	stored := f.repo.tags[seeded.ID]
	assert.Equal(t, valueobject.TierGold, stored.Tier)
	assert.Equal(t, 2, stored.Version)

	progress := f.notifier.next(t)
	assert.Equal(t, tag.EventTagProgress, progress.event)
	assert.Equal(t, designerID, progress.userID)
	promoted := f.notifier.next(t)
	assert.Equal(t, tag.EventTagPromoted, promoted.event)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Promotions.WithLabelValues("gold")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Evaluations.WithLabelValues("true")))
}

func TestRecordProjectUseCase_NonQualifyingDoesNotWrite(t *testing.T) {
	f := newFixture(t, progression.FlatPolicy{}, fastRetry)
	designerID := uuid.New()
	seeded := f.seed(t, designerID, 8)

	for i := 0; i < 3; i++ {
		result, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
			DesignerID: designerID,
			TagID:      seeded.ID,
			Metrics:    nonQualifying,
		})
		require.NoError(t, err)
		assert.False(t, result.Qualified)
		assert.Equal(t, 8, result.Tag.ProjectsCompleted)
		assert.InDelta(t, 80.0, result.ProgressPercent, 1e-9)
	}

	assert.Equal(t, 0, f.repo.saves)
	assert.Equal(t, 1, f.repo.tags[seeded.ID].Version)
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.Evaluations.WithLabelValues("false")))
}

func TestRecordProjectUseCase_Forbidden(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	seeded := f.seed(t, uuid.New(), 0)

	_, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
		DesignerID: uuid.New(),
		TagID:      seeded.ID,
		Metrics:    qualifying,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, 0, f.repo.saves)
}

func TestRecordProjectUseCase_NotFound(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)

	_, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
		DesignerID: uuid.New(),
		TagID:      uuid.New(),
		Metrics:    qualifying,
	})
	assert.ErrorIs(t, err, apperror.ErrTagNotFound)
}

func TestRecordProjectUseCase_InvalidMetricsRejectedBeforeLoad(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)

	_, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
		DesignerID: uuid.New(),
		TagID:      uuid.New(),
		Metrics:    valueobject.ProjectQualityMetrics{ConsumerRating: 6, DesignerRating: 4, Engagement: 100},
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordProjectUseCase_RetriesConflicts(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	designerID := uuid.New()
	seeded := f.seed(t, designerID, 0)
	f.repo.forcedConflicts = 2

	result, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
		DesignerID: designerID,
		TagID:      seeded.ID,
		Metrics:    qualifying,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Tag.ProjectsCompleted)
	assert.Equal(t, 3, f.repo.saves)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SaveConflicts))
}

func TestRecordProjectUseCase_ConflictAfterRetries(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, fastRetry)
	designerID := uuid.New()
	seeded := f.seed(t, designerID, 0)
	f.repo.forcedConflicts = 3

	_, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
		DesignerID: designerID,
		TagID:      seeded.ID,
		Metrics:    qualifying,
	})
	assert.ErrorIs(t, err, apperror.ErrConcurrentUpdate)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 3, f.repo.saves)
	assert.Equal(t, 0, f.repo.tags[seeded.ID].ProjectsCompleted)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RetriesExceeded))
}

func TestRecordProjectUseCase_ConcurrentCompletionsAreNotLost(t *testing.T) {
	f := newFixture(t, progression.MultiplicativePolicy{}, tag.RetryConfig{MaxAttempts: 100, InitialInterval: time.Millisecond})
	f.record = tag.NewRecordProjectUseCase(f.repo, f.engine, f.metrics, nil, tag.RetryConfig{MaxAttempts: 100, InitialInterval: time.Millisecond})
	designerID := uuid.New()
	seeded := f.seed(t, designerID, 0)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.record.Execute(context.Background(), tag.RecordProjectInput{
				DesignerID: designerID,
				TagID:      seeded.ID,
				Metrics:    qualifying,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := f.repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, stored.ProjectsCompleted)
	// denim: base 6, значит после 8 проектов уровень Gold и порог 12.
	assert.Equal(t, valueobject.TierGold, stored.Tier)
	assert.Equal(t, valueobject.FiniteThreshold(12), stored.NextTierThreshold)
}
