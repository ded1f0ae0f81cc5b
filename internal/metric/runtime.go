package metric

import (
	"context"
	"runtime"
	"time"
)

// RuntimeProducer produces Go runtime statistics: goroutine count, heap
// usage and GC activity. It is the built-in producer used by the agent
// binary; embedding applications typically supply their own.
type RuntimeProducer struct {
	start time.Time
}

// NewRuntimeProducer creates a runtime statistics producer.
func NewRuntimeProducer() *RuntimeProducer {
	return &RuntimeProducer{start: time.Now()}
}

// Produce collects one snapshot of runtime statistics.
func (p *RuntimeProducer) Produce(ctx context.Context) ([]Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	now := time.Now()

	point := func(v float64) []DataPoint {
		return []DataPoint{{StartTime: p.start, Time: now, Value: v}}
	}

	return []Metrics{
		{
			Name:       "process.runtime.go.goroutines",
			Unit:       "{goroutine}",
			Kind:       KindGauge,
			DataPoints: point(float64(runtime.NumGoroutine())),
		},
		{
			Name:       "process.runtime.go.mem.heap_alloc",
			Unit:       "By",
			Kind:       KindGauge,
			DataPoints: point(float64(ms.HeapAlloc)),
		},
		{
			Name:       "process.runtime.go.mem.heap_objects",
			Unit:       "{object}",
			Kind:       KindGauge,
			DataPoints: point(float64(ms.HeapObjects)),
		},
		{
			Name:       "process.runtime.go.gc.count",
			Unit:       "{gc}",
			Kind:       KindCounter,
			Monotonic:  true,
			DataPoints: point(float64(ms.NumGC)),
		},
	}, nil
}
