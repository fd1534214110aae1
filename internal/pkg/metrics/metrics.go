// Package metrics exposes Prometheus counters for the ledger. A nil *Metrics is valid
// and records nothing, so services run unchanged without a registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	// Committed audit events by kind
	EventsCommitted *prometheus.CounterVec

	// Post-commit publish failures (events persisted but not fanned out)
	PublishFailures prometheus.Counter

	// Compliance gate decisions by outcome and denial reason
	ComplianceDecisions *prometheus.CounterVec
}

// New registers the ledger metrics plus the Go and process collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		EventsCommitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rwa_events_committed_total",
			Help: "Audit events committed, by kind",
		}, []string{"kind"}),
		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "rwa_events_publish_failures_total",
			Help: "Event batches that committed but could not be published",
		}),
		ComplianceDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rwa_compliance_decisions_total",
			Help: "Compliance gate decisions by outcome and reason",
		}, []string{"outcome", "reason"}), // outcome: "allowed", "denied", "error"
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) EventCommitted(kind string) {
	if m != nil {
		m.EventsCommitted.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) PublishFailed() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}

// ComplianceDecision records one gate evaluation. reason is empty unless outcome is "denied".
func (m *Metrics) ComplianceDecision(outcome, reason string) {
	if m != nil {
		m.ComplianceDecisions.WithLabelValues(outcome, reason).Inc()
	}
}
