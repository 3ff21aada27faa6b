package tag

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/caelus-market/caelus-backend/internal/domain/progression"
	"github.com/caelus-market/caelus-backend/internal/domain/repository"
	"github.com/caelus-market/caelus-backend/internal/domain/valueobject"
	"github.com/caelus-market/caelus-backend/internal/goroutine"
	"github.com/caelus-market/caelus-backend/internal/logger"
	"github.com/caelus-market/caelus-backend/internal/metrics"
	"github.com/caelus-market/caelus-backend/internal/pkg/apperror"
)

// События, которые получает дизайнер по WebSocket.
const (
	EventTagProgress = "tag.progress"
	EventTagPromoted = "tag.promoted"
)

// Notifier доставляет события дизайнеру в реальном времени.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// RetryConfig параметры повторов цикла чтение-оценка-сохранение.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialInterval: 50 * time.Millisecond}
}

type RecordProjectInput struct {
	DesignerID uuid.UUID
	TagID      uuid.UUID
	Metrics    valueobject.ProjectQualityMetrics
}

// TagProgressEvent полезная нагрузка событий tag.progress и tag.promoted.
type TagProgressEvent struct {
	TagID             uuid.UUID         `json:"tagId"`
	Category          string            `json:"category"`
	Value             string            `json:"value"`
	Tier              valueobject.Tier  `json:"tier"`
	PromotedTo        *valueobject.Tier `json:"promotedTo,omitempty"`
	ProjectsCompleted int               `json:"projectsCompleted"`
	ProgressPercent   float64           `json:"progressPercent"`
}

// RecordProjectUseCase засчитывает завершённый проект в прогресс тега.
// Цикл FindByID → EvaluateProject → Save повторяется при конфликте версий.
type RecordProjectUseCase struct {
	tagRepo  repository.TagRepository
	engine   *progression.Engine
	metrics  *metrics.TagMetrics
	notifier Notifier
	retry    RetryConfig
	runner   *goroutine.RecoveryHandler
	tracer   trace.Tracer
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewRecordProjectUseCase(
	tagRepo repository.TagRepository,
	engine *progression.Engine,
	tagMetrics *metrics.TagMetrics,
	notifier Notifier,
	retry RetryConfig,
) *RecordProjectUseCase {
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 1
	}
	log := logger.Get()
	return &RecordProjectUseCase{
		tagRepo:  tagRepo,
		engine:   engine,
		metrics:  tagMetrics,
		notifier: notifier,
		retry:    retry,
		runner:   goroutine.NewRecoveryHandler(log),
		tracer:   otel.Tracer("caelus/usecase/tag"),
		log:      log,
		now:      time.Now,
	}
}

func (uc *RecordProjectUseCase) Execute(ctx context.Context, input RecordProjectInput) (progression.UpdateResult, error) {
	if err := input.Metrics.Validate(); err != nil {
		return progression.UpdateResult{}, err
	}

	ctx, span := uc.tracer.Start(ctx, "tag.record_project",
		trace.WithAttributes(
			attribute.String("tag.id", input.TagID.String()),
			attribute.String("designer.id", input.DesignerID.String()),
			attribute.Float64("metrics.consumer_rating", input.Metrics.ConsumerRating),
			attribute.Float64("metrics.designer_rating", input.Metrics.DesignerRating),
			attribute.Int64("metrics.engagement", input.Metrics.Engagement),
		),
	)
	defer span.End()

	var (
		result   progression.UpdateResult
		attempts int
	)
	operation := func() error {
		attempts++
		res, err := uc.evaluateAndSave(ctx, input)
		if err != nil {
			if errors.Is(err, apperror.ErrConcurrentUpdate) {
				uc.metrics.SaveConflicts.Inc()
				span.AddEvent("tag.save_conflict", trace.WithAttributes(attribute.Int("attempt", attempts)))
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	err := backoff.Retry(operation, uc.backOff(ctx))
	span.SetAttributes(attribute.Int("attempts", attempts))
	if err != nil {
		if errors.Is(err, apperror.ErrConcurrentUpdate) {
			uc.metrics.RetriesExceeded.Inc()
			uc.log.WithFields(logrus.Fields{
				"tag_id":   input.TagID,
				"attempts": attempts,
			}).Warn("tag: повторы сохранения исчерпаны")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return progression.UpdateResult{}, err
	}

	uc.metrics.Evaluations.WithLabelValues(boolLabel(result.Qualified)).Inc()
	span.SetAttributes(
		attribute.Bool("qualified", result.Qualified),
		attribute.Bool("promoted", result.Promoted()),
		attribute.String("tier", string(result.Tag.Tier)),
	)

	if result.Promoted() {
		uc.metrics.Promotions.WithLabelValues(string(*result.PromotedTo)).Inc()
		uc.log.WithFields(logrus.Fields{
			"tag_id":      result.Tag.ID,
			"designer_id": result.Tag.DesignerID,
			"value":       result.Tag.Value,
			"tier":        *result.PromotedTo,
			"projects":    result.Tag.ProjectsCompleted,
		}).Info("tag: уровень повышен")
	}

	if result.Qualified {
		uc.notify(result)
	}

	return result, nil
}

// evaluateAndSave одна попытка цикла. Незасчитанный проект ничего не пишет.
func (uc *RecordProjectUseCase) evaluateAndSave(ctx context.Context, input RecordProjectInput) (progression.UpdateResult, error) {
	current, err := uc.tagRepo.FindByID(ctx, input.TagID)
	if err != nil {
		return progression.UpdateResult{}, err
	}
	if !current.IsOwnedBy(input.DesignerID) {
		return progression.UpdateResult{}, apperror.ErrForbidden
	}

	res, err := uc.engine.EvaluateProject(*current, input.Metrics)
	if err != nil {
		return progression.UpdateResult{}, err
	}
	if !res.Qualified {
		return res, nil
	}

	updated := res.Tag
	now := uc.now()
	if res.Promoted() {
		updated.MarkPromoted(now)
	} else {
		updated.Touch(now)
	}

	if err := uc.tagRepo.Save(ctx, &updated); err != nil {
		return progression.UpdateResult{}, err
	}

	res.Tag = updated
	return res, nil
}

func (uc *RecordProjectUseCase) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = uc.retry.InitialInterval
	exp.MaxInterval = 10 * uc.retry.InitialInterval
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(uc.retry.MaxAttempts-1)), ctx)
}

func (uc *RecordProjectUseCase) notify(result progression.UpdateResult) {
	if uc.notifier == nil {
		return
	}

	event := TagProgressEvent{
		TagID:             result.Tag.ID,
		Category:          string(result.Tag.Category),
		Value:             result.Tag.Value,
		Tier:              result.Tag.Tier,
		PromotedTo:        result.PromotedTo,
		ProjectsCompleted: result.Tag.ProjectsCompleted,
		ProgressPercent:   result.ProgressPercent,
	}
	designerID := result.Tag.DesignerID

	uc.runner.Go(func() {
		if err := uc.notifier.BroadcastToUser(designerID, EventTagProgress, event); err != nil {
			uc.log.WithError(err).Warn("tag: не удалось отправить событие прогресса")
		}
		if event.PromotedTo != nil {
			if err := uc.notifier.BroadcastToUser(designerID, EventTagPromoted, event); err != nil {
				uc.log.WithError(err).Warn("tag: не удалось отправить событие повышения")
			}
		}
	})
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
