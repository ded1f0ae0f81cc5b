package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordEnqueued("traces", 3)
	m.RecordDropped("traces", 1)
	m.SetQueueDepth("traces", 2)
	m.RecordExport("traces", OutcomeOK, 3, 10*time.Millisecond)
	m.RecordExport("traces", OutcomeTimeout, 2, time.Second)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsEnqueued.WithLabelValues("traces")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemsDropped.WithLabelValues("traces")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueueDepth.WithLabelValues("traces")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("traces", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("traces", OutcomeTimeout)))
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordEnqueued("logs", 5)
	m.RecordDropped("logs", 2)
	m.RecordExport("logs", OutcomeOK, 5, time.Millisecond)
	m.RecordExport("logs", OutcomeError, 5, time.Millisecond)

	snap := m.GetSnapshot()
	assert.Equal(t, int64(5), snap.Enqueued)
	assert.Equal(t, int64(2), snap.Dropped)
	assert.Equal(t, int64(2), snap.Exports)
	assert.Equal(t, int64(1), snap.Failures)
	assert.GreaterOrEqual(t, snap.UptimeS, int64(0))
}
