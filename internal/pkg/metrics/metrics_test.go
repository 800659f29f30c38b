package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDispatch("LOGIN", true)
	m.ObserveDispatch("LOGIN", true)
	m.ObserveDispatch("VERIFY_OTP", false)
	m.PersistenceFailed("save")
	m.SnapshotWritten()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("LOGIN", OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("VERIFY_OTP", OutcomeIgnored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotWrites))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDispatch("LOGIN", true)
		m.PersistenceFailed("load")
		m.SnapshotWritten()
	})
}
