package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/cartograph/pkg/domain"
)

// Metrics records session activity in a Prometheus registry.
type Metrics struct {
	registry     *prometheus.Registry
	transitions  *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartograph_transitions_total",
				Help: "Total number of session transitions",
			},
			[]string{"kind"},
		),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartograph_loads_total",
				Help: "Total number of load attempts by outcome",
			},
			[]string{"kind", "format", "outcome"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cartograph_load_duration_seconds",
				Help:    "Duration of parse and apply for successful loads",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "format"},
		),
	}
	m.registry.MustRegister(m.transitions, m.loads, m.loadDuration)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, ev *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(ev.Kind)).Inc()
		},
		OnLoadCompleted: func(_ context.Context, ev *domain.LoadEvent) {
			m.loads.WithLabelValues(string(ev.Kind), ev.Format, "ok").Inc()
			m.loadDuration.WithLabelValues(string(ev.Kind), ev.Format).Observe(ev.Duration.Seconds())
		},
		OnLoadFailed: func(_ context.Context, ev *domain.LoadEvent) {
			outcome := "error"
			if errors.Is(ev.Err, domain.ErrLoadSuperseded) {
				outcome = "superseded"
			}
			format := ev.Format
			if format == "" {
				format = "unknown"
			}
			m.loads.WithLabelValues(string(ev.Kind), format, outcome).Inc()
		},
	}
}
