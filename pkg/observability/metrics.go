package observability

import (
	"context"
	"errors"
	"time"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "cbh"

// Metrics holds the collectors fed by the binder hooks.
type Metrics struct {
	applied  *prometheus.CounterVec
	warnings *prometheus.CounterVec
	skips    *prometheus.CounterVec
	passes   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "constraints_applied_total",
				Help:      "Total number of constraint components attached",
			},
			[]string{"kind", "role"},
		),
		warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "warnings_total",
				Help:      "Total number of roles skipped with a warning",
			},
			[]string{"kind", "code"},
		),
		skips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "roles_skipped_total",
				Help:      "Total number of roles skipped silently",
			},
			[]string{"reason"},
		),
		passes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "apply_duration_seconds",
				Help:      "Duration of apply and plan requests",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"operation", "outcome"},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.applied, m.warnings, m.skips, m.passes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNewMetrics is like NewMetrics but panics on registration errors.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnApplied: func(_ context.Context, spec domain.ConstraintSpec) {
			m.applied.WithLabelValues(spec.Kind.String(), spec.Role.String()).Inc()
		},
		OnWarning: func(_ context.Context, w domain.Warning) {
			m.warnings.WithLabelValues(w.Kind.String(), w.Code).Inc()
		},
		OnSkip: func(_ context.Context, s domain.Skip) {
			m.skips.WithLabelValues(string(s.Reason)).Inc()
		},
	}
}

// ObservePass records how long an apply or plan request took and how it ended.
func (m *Metrics) ObservePass(operation string, started time.Time, err error) {
	m.passes.WithLabelValues(operation, Outcome(err)).Observe(time.Since(started).Seconds())
}

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	var pre *domain.PreconditionError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pre):
		return "refused"
	case errors.Is(err, domain.ErrUnknownConstraintKind):
		return "unknown_kind"
	case errors.Is(err, domain.ErrSceneNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
