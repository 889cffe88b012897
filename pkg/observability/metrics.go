package observability

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spotcheck"

// Metrics holds the collectors fed by the engine and the HTTP layer.
type Metrics struct {
	Clicks         *prometheus.CounterVec
	Transitions    *prometheus.CounterVec
	Questionnaires prometheus.Counter
	Difficulty     prometheus.Histogram
	Requests       *prometheus.CounterVec
	Duration       prometheus.Histogram

	logger *slog.Logger
}

// NewMetrics creates the collectors and registers them on reg.
// A nil logger disables the lifecycle log lines.
func NewMetrics(reg prometheus.Registerer, logger *slog.Logger) *Metrics {
	m := &Metrics{
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Recorded clicks by step and outcome.",
		}, []string{"step_id", "result"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Phase transitions by destination phase.",
		}, []string{"to"}),
		Questionnaires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questionnaires_total",
			Help:      "Recorded questionnaire submissions.",
		}),
		Difficulty: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "questionnaire_difficulty",
			Help:      "Self-reported difficulty (1-10).",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Interaction requests by method and status code.",
		}, []string{"method", "code"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Interaction request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		logger: logger,
	}
	reg.MustRegister(m.Clicks, m.Transitions, m.Questionnaires, m.Difficulty, m.Requests, m.Duration)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnClick: func(ctx context.Context, e *domain.ClickEvent) {
			result := "miss"
			if e.Hit {
				result = "hit"
			}
			m.Clicks.WithLabelValues(e.StepID, result).Inc()
			m.log(ctx, "click", "session_id", e.SessionID, "step_id", e.StepID, "hit", e.Hit)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.To)).Inc()
			m.log(ctx, "transition", "session_id", e.SessionID, "from", e.From, "to", e.To, "to_step", e.ToStep)
		},
		OnQuestionnaire: func(ctx context.Context, e *domain.QuestionnaireEvent) {
			m.Questionnaires.Inc()
			m.Difficulty.Observe(float64(e.Difficulty))
			m.log(ctx, "questionnaire", "session_id", e.SessionID, "difficulty", e.Difficulty)
		},
	}
}

func (m *Metrics) log(ctx context.Context, msg string, args ...any) {
	if m.logger != nil {
		m.logger.DebugContext(ctx, msg, args...)
	}
}

// Instrument counts requests and observes their latency.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.Requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		m.Duration.Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
