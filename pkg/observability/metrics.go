package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records form activity as Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	nodeEvents       *prometheus.CounterVec
	valueHandled     *prometheus.CounterVec
	expressionErrors *prometheus.CounterVec
	validations      *prometheus.HistogramVec
	drafts           *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private
// registry, so several forms or tests never clash on registration.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_node_events_total",
				Help: "Total number of attach, detach, enable and disable operations applied to nodes",
			},
			[]string{"event", "kind"},
		),
		valueHandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_value_handled_total",
				Help: "Total number of value strategies applied",
			},
			[]string{"strategy"},
		),
		expressionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_expression_errors_total",
				Help: "Total number of rules that failed to parse or evaluate",
			},
			[]string{"field"},
		),
		validations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formwork_validation_duration_seconds",
				Help:    "Duration of full form validations, including async validators",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"valid"},
		),
		drafts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_draft_operations_total",
				Help: "Total number of draft saves and deletes",
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(m.nodeEvents, m.valueHandled, m.expressionErrors, m.validations, m.drafts)
	return m
}

// Registry exposes the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	node := func(e *domain.NodeEvent) {
		m.nodeEvents.WithLabelValues(string(e.Type), string(e.Kind)).Inc()
	}
	return domain.LifecycleHooks{
		OnAttach:  func(_ context.Context, e *domain.NodeEvent) { node(e) },
		OnDetach:  func(_ context.Context, e *domain.NodeEvent) { node(e) },
		OnEnable:  func(_ context.Context, e *domain.NodeEvent) { node(e) },
		OnDisable: func(_ context.Context, e *domain.NodeEvent) { node(e) },
		OnValueHandled: func(_ context.Context, e *domain.ValueEvent) {
			m.valueHandled.WithLabelValues(string(e.Strategy)).Inc()
		},
		OnExpressionError: func(_ context.Context, e *domain.ExpressionEvent) {
			m.expressionErrors.WithLabelValues(e.Field).Inc()
		},
	}
}

// ObserveValidation records how long a validation took and its outcome.
func (m *Metrics) ObserveValidation(d time.Duration, valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	m.validations.WithLabelValues(label).Observe(d.Seconds())
}

// DraftSaved counts a persisted draft.
func (m *Metrics) DraftSaved() {
	m.drafts.WithLabelValues("save").Inc()
}

// DraftDeleted counts a deleted draft.
func (m *Metrics) DraftDeleted() {
	m.drafts.WithLabelValues("delete").Inc()
}
