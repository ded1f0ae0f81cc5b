package monitoring

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics holds the pipeline's Prometheus self-metrics. Labels carry the
// signal name ("traces", "logs", "metrics") so one registry covers every
// processor and reader.
type Metrics struct {
	// Queue metrics
	ItemsEnqueued *prometheus.CounterVec
	ItemsDropped  *prometheus.CounterVec
	QueueDepth    *prometheus.GaugeVec

	// Export metrics
	ExportsTotal   *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
	BatchSize      *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for the JSON stats API
	enqueued atomic.Int64
	dropped  atomic.Int64
	exports  atomic.Int64
	failures atomic.Int64
}

// Snapshot holds current counter values for the JSON stats API.
type Snapshot struct {
	Enqueued int64 `json:"enqueued"`
	Dropped  int64 `json:"dropped"`
	Exports  int64 `json:"exports"`
	Failures int64 `json:"failures"`
	UptimeS  int64 `json:"uptime_seconds"`
}

// NewMetrics creates the pipeline metrics registered on reg. Pass
// prometheus.DefaultRegisterer for the process-wide registry or a fresh
// registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		ItemsEnqueued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lightline_items_enqueued_total",
				Help: "Total number of telemetry items accepted into a processor queue",
			},
			[]string{"signal"},
		),
		ItemsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lightline_items_dropped_total",
				Help: "Total number of telemetry items dropped because a queue was full",
			},
			[]string{"signal"},
		),
		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lightline_queue_depth",
				Help: "Current number of items waiting in a processor queue",
			},
			[]string{"signal"},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lightline_exports_total",
				Help: "Total number of export calls by outcome",
			},
			[]string{"signal", "outcome"},
		),
		ExportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lightline_export_duration_seconds",
				Help:    "Export call duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"signal"},
		),
		BatchSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lightline_batch_size",
				Help:    "Number of items per exported batch",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048},
			},
			[]string{"signal"},
		),
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lightline_uptime_seconds",
				Help: "Seconds since the pipeline started",
			},
		),
	}

	return m
}

// RecordEnqueued counts items accepted into a queue.
func (m *Metrics) RecordEnqueued(signal string, n int) {
	m.ItemsEnqueued.WithLabelValues(signal).Add(float64(n))
	m.enqueued.Add(int64(n))
}

// RecordDropped counts items discarded at a full queue.
func (m *Metrics) RecordDropped(signal string, n int) {
	m.ItemsDropped.WithLabelValues(signal).Add(float64(n))
	m.dropped.Add(int64(n))
}

// SetQueueDepth records the current queue depth.
func (m *Metrics) SetQueueDepth(signal string, depth int) {
	m.QueueDepth.WithLabelValues(signal).Set(float64(depth))
}

// RecordExport records one export call with its outcome, batch size and
// duration.
func (m *Metrics) RecordExport(signal, outcome string, batchSize int, d time.Duration) {
	m.ExportsTotal.WithLabelValues(signal, outcome).Inc()
	m.ExportDuration.WithLabelValues(signal).Observe(d.Seconds())
	m.BatchSize.WithLabelValues(signal).Observe(float64(batchSize))
	m.exports.Add(1)
	if outcome != OutcomeOK {
		m.failures.Add(1)
	}
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// GetSnapshot returns current counter values for the JSON stats API.
func (m *Metrics) GetSnapshot() Snapshot {
	return Snapshot{
		Enqueued: m.enqueued.Load(),
		Dropped:  m.dropped.Load(),
		Exports:  m.exports.Load(),
		Failures: m.failures.Load(),
		UptimeS:  int64(time.Since(m.startTime).Seconds()),
	}
}
