package observability

import (
	"context"
	"errors"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by editor hooks.
type Metrics struct {
	Keystrokes         prometheus.Counter
	ModeTransitions    *prometheus.CounterVec
	Keywords           *prometheus.CounterVec
	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused, so several
// engines may share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Keystrokes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mathpad_keystrokes_total",
			Help: "Total number of key presses handled by the editor",
		}),
		ModeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathpad_mode_transitions_total",
			Help: "Total number of edit mode transitions",
		}, []string{"from", "to"}),
		Keywords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathpad_keywords_total",
			Help: "Total number of typed keywords recognized",
		}, []string{"keyword"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mathpad_evaluations_total",
			Help: "Total number of evaluations by outcome",
		}, []string{"outcome"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mathpad_evaluation_duration_seconds",
			Help:    "Duration of expression evaluations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	var err error
	m.Keystrokes, err = register(reg, m.Keystrokes)
	if err != nil {
		return nil, err
	}
	if m.ModeTransitions, err = register(reg, m.ModeTransitions); err != nil {
		return nil, err
	}
	if m.Keywords, err = register(reg, m.Keywords); err != nil {
		return nil, err
	}
	if m.Evaluations, err = register(reg, m.Evaluations); err != nil {
		return nil, err
	}
	if m.EvaluationDuration, err = register(reg, m.EvaluationDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	transition := func(_ context.Context, e *domain.ModeEvent) {
		m.ModeTransitions.WithLabelValues(string(e.From), string(e.To)).Inc()
	}
	return domain.LifecycleHooks{
		OnKeystroke: func(context.Context, *domain.KeyEvent) {
			m.Keystrokes.Inc()
		},
		OnModeEnter: transition,
		OnModeExit:  transition,
		OnKeyword: func(_ context.Context, e *domain.KeywordEvent) {
			m.Keywords.WithLabelValues(e.Keyword).Inc()
		},
		OnEvaluate: func(_ context.Context, e *domain.EvaluationEvent) {
			m.Evaluations.WithLabelValues(Outcome(e.Err)).Inc()
			m.EvaluationDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Outcome classifies an evaluation error into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrEmptyExpression):
		return "empty"
	case errors.Is(err, domain.ErrEvaluation):
		return "error"
	}
	return "failure"
}
