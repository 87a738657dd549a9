// Package metrics exposes Prometheus collectors for the highlighter and the editor.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/surligne/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry, so several hosts
// (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	renders       prometheus.Counter
	renderLatency prometheus.Histogram
	matches       prometheus.Counter
	mutations     *prometheus.CounterVec
	rejections    *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surligne_renders_total",
			Help: "Total number of highlight renders",
		}),
		renderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "surligne_render_duration_seconds",
			Help:    "Duration of highlight renders",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surligne_keyword_matches_total",
			Help: "Total number of keyword occurrences highlighted",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surligne_mutations_total",
			Help: "Accepted configuration mutations",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "surligne_rejections_total",
			Help: "Rejected configuration mutations",
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.renders, m.renderLatency, m.matches, m.mutations, m.rejections)
	return m
}

// ObserveRender records one render of the given duration producing matches spans.
func (m *Metrics) ObserveRender(d time.Duration, matches int) {
	m.renders.Inc()
	m.renderLatency.Observe(d.Seconds())
	m.matches.Add(float64(matches))
}

// Hooks returns editor hooks counting accepted and rejected mutations.
// next, if non-zero, is called after the counters are updated.
func (m *Metrics) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: next.OnChange,
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			m.mutations.WithLabelValues(e.Op).Inc()
			if next.OnMutation != nil {
				next.OnMutation(ctx, e)
			}
		},
		OnReject: func(ctx context.Context, e *domain.MutationEvent) {
			m.rejections.WithLabelValues(e.Op).Inc()
			if next.OnReject != nil {
				next.OnReject(ctx, e)
			}
		},
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
