// Package metric holds the pull-based metric data model and the periodic
// reader that drives collection and export on a fixed interval.
package metric

import (
	"context"
	"time"

	"github.com/lightline-io/lightline/internal/attribute"
	"github.com/lightline-io/lightline/internal/resource"
)

// Kind discriminates the point types a metric may carry.
type Kind int

const (
	KindCounter Kind = iota
	KindGauge
	KindHistogram
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// DataPoint is a single measurement with its identifying attributes.
type DataPoint struct {
	Attributes []attribute.KeyValue
	StartTime  time.Time
	Time       time.Time

	// Value is set for counter and gauge points.
	Value float64

	// Histogram fields; only populated for KindHistogram.
	Count        uint64
	Sum          float64
	Bounds       []float64
	BucketCounts []uint64
}

// Metrics is one named instrument's snapshot: its identity plus the data
// points collected since the previous tick.
type Metrics struct {
	Name        string
	Description string
	Unit        string
	Kind        Kind
	// Monotonic distinguishes counters from up-down counters. Ignored
	// for gauges and histograms.
	Monotonic  bool
	DataPoints []DataPoint
}

// Snapshot is the unit handed to an exporter: every instrument produced
// on one tick, under one resource envelope.
type Snapshot struct {
	Resource *resource.Resource
	Metrics  []Metrics
}

// Producer supplies metric snapshots on demand. The periodic reader calls
// Produce once per tick; implementations must be safe for concurrent use
// since a slow export can overlap the next tick's collection.
type Producer interface {
	Produce(ctx context.Context) ([]Metrics, error)
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(ctx context.Context) ([]Metrics, error)

// Produce calls f.
func (f ProducerFunc) Produce(ctx context.Context) ([]Metrics, error) {
	return f(ctx)
}
