// Package metrics exposes Prometheus counters for the state store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cafechain"

// Outcome labels for dispatched actions
const (
	OutcomeAccepted = "accepted"
	OutcomeIgnored  = "ignored"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Dispatches          *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	SnapshotWrites      prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Actions dispatched to the state store, by type and outcome.",
		}, []string{"action", "outcome"}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Swallowed snapshot load/save failures.",
		}, []string{"op"}),
		SnapshotWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_writes_total",
			Help:      "Snapshots successfully written to the backend.",
		}),
	}
	reg.MustRegister(m.Dispatches, m.PersistenceFailures, m.SnapshotWrites)
	return m
}

// ObserveDispatch counts one dispatched action
func (m *Metrics) ObserveDispatch(action string, accepted bool) {
	if m == nil {
		return
	}
	outcome := OutcomeIgnored
	if accepted {
		outcome = OutcomeAccepted
	}
	m.Dispatches.WithLabelValues(action, outcome).Inc()
}

// PersistenceFailed counts a swallowed load or save error
func (m *Metrics) PersistenceFailed(op string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(op).Inc()
}

// SnapshotWritten counts a successful save
func (m *Metrics) SnapshotWritten() {
	if m == nil {
		return
	}
	m.SnapshotWrites.Inc()
}
