// Package metrics exposes Prometheus counters for editor sessions: store
// mutations by kind, interaction events by outcome, and open sessions.
//
// Every Metrics value owns its own registry so several apps (or tests) can
// run in one process without colliding on the default registerer.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/flowcanvas/internal/topologystore"
)

// Event outcomes.
const (
	OutcomeHandled  = "handled"
	OutcomeRejected = "rejected"
)

// Metrics holds the collectors of one application instance.
type Metrics struct {
	registry *prometheus.Registry

	mutations *prometheus.CounterVec
	edges     *prometheus.CounterVec
	events    *prometheus.CounterVec
	sessions  prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_store_mutations_total",
				Help: "Total number of graph store mutations",
			},
			[]string{"kind"},
		),
		edges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_store_edges_total",
				Help: "Total number of edges touched by store mutations",
			},
			[]string{"kind"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_events_total",
				Help: "Total number of interaction events processed",
			},
			[]string{"type", "outcome"},
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "flowcanvas_sessions_open",
				Help: "Number of editor sessions currently open",
			},
		),
	}
	m.registry.MustRegister(m.mutations, m.edges, m.events, m.sessions)
	return m
}

// ObserveChange counts one store change. Its signature matches
// topologystore.Listener so it can be subscribed directly.
func (m *Metrics) ObserveChange(_ context.Context, c topologystore.Change) {
	m.mutations.WithLabelValues(string(c.Kind)).Inc()
	if n := len(c.EdgeIDs); n > 0 {
		m.edges.WithLabelValues(string(c.Kind)).Add(float64(n))
	}
}

// ObserveEvent counts one interaction event with its outcome.
func (m *Metrics) ObserveEvent(eventType string, err error) {
	outcome := OutcomeHandled
	if err != nil {
		outcome = OutcomeRejected
	}
	m.events.WithLabelValues(eventType, outcome).Inc()
}

// SessionOpened increments the open sessions gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed decrements the open sessions gauge.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
