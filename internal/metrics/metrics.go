// Path: internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values for the source a read was served from.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Metrics groups the service's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	served      *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
	mutations   *prometheus.CounterVec
	imported    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gene_catalog",
			Name:      "reads_total",
			Help:      "Read operations by operation and the source that served them.",
		}, []string{"op", "source"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gene_catalog",
			Name:      "store_errors_total",
			Help:      "Remote store failures that caused a fallback, by reason.",
		}, []string{"op", "reason"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gene_catalog",
			Name:      "mutations_total",
			Help:      "Administrative writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gene_catalog",
			Name:      "imported_records_total",
			Help:      "Records upserted by the UniProt importer.",
		}),
	}
	reg.MustRegister(m.served, m.storeErrors, m.mutations, m.imported)
	return m
}

// Served counts a read answered by source.
func (m *Metrics) Served(op, source string) {
	if m == nil {
		return
	}
	m.served.WithLabelValues(op, source).Inc()
}

// StoreError counts a degraded read.
func (m *Metrics) StoreError(op, reason string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op, reason).Inc()
}

// Mutation counts an administrative write.
func (m *Metrics) Mutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// Imported adds n upserted records.
func (m *Metrics) Imported(n int) {
	if m == nil {
		return
	}
	m.imported.Add(float64(n))
}
