// Package metrics регистрирует Prometheus метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "caelus"

// TagMetrics счётчики прогресса тегов.
type TagMetrics struct {
	Evaluations     *prometheus.CounterVec
	Promotions      *prometheus.CounterVec
	SaveConflicts   prometheus.Counter
	RetriesExceeded prometheus.Counter
}

// HTTPMetrics метрики HTTP запросов.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// Registry реестр сервиса вместе со всеми метриками.
type Registry struct {
	*prometheus.Registry
	Tags *TagMetrics
	HTTP *HTTPMetrics
}

// NewRegistry создаёт реестр с метриками процесса и Go runtime.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		Registry: reg,
		Tags:     NewTagMetrics(reg),
		HTTP:     NewHTTPMetrics(reg),
	}
}

func NewTagMetrics(reg prometheus.Registerer) *TagMetrics {
	m := &TagMetrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tags",
			Name:      "project_evaluations_total",
			Help:      "Оценённые завершённые проекты по признаку засчитывания.",
		}, []string{"qualified"}),
		Promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tags",
			Name:      "promotions_total",
			Help:      "Повышения уровня тегов по новому уровню.",
		}, []string{"tier"}),
		SaveConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tags",
			Name:      "save_conflicts_total",
			Help:      "Конфликты оптимистичной блокировки при сохранении тега.",
		}),
		RetriesExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tags",
			Name:      "save_retries_exceeded_total",
			Help:      "Запросы, исчерпавшие повторы сохранения.",
		}),
	}
	reg.MustRegister(m.Evaluations, m.Promotions, m.SaveConflicts, m.RetriesExceeded)
	return m
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP запросы по маршруту, методу и статусу.",
		}, []string{"route", "method", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Длительность HTTP запросов.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}
