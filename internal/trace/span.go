package trace

import (
	"time"

	"github.com/lightline-io/lightline/internal/attribute"
	"github.com/lightline-io/lightline/internal/resource"
)

// SpanKind describes the relationship between a span and its trace
// neighbors.
type SpanKind int

const (
	KindInternal SpanKind = iota
	KindServer
	KindClient
	KindProducer
	KindConsumer
)

// String returns the string representation of the kind.
func (k SpanKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindProducer:
		return "producer"
	case KindConsumer:
		return "consumer"
	default:
		return "internal"
	}
}

// StatusCode is the coarse outcome of a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// String returns the string representation of the code.
func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Status is the optional outcome recorded on a span.
type Status struct {
	Code        StatusCode
	Description string
}

// Event is a timestamped annotation within a span.
type Event struct {
	Name       string
	Time       time.Time
	Attributes []attribute.KeyValue
}

// Link connects a span to a span context in another trace.
type Link struct {
	Context    SpanContext
	Attributes []attribute.KeyValue
}

// Snapshot is the immutable record of a finished span, taken exactly once
// at span end. It is created by the tracer, consumed exactly once by a
// processor, and never mutated afterward.
type Snapshot struct {
	Context    SpanContext
	Name       string
	Kind       SpanKind
	Status     Status
	StartTime  time.Time
	EndTime    time.Time
	Attributes []attribute.KeyValue
	Events     []Event
	Links      []Link
	Resource   *resource.Resource
}

// Duration returns the elapsed time between start and end.
func (s *Snapshot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Sampled reports whether the span's context carries the sampled flag.
// It is the gate applied before a snapshot enters the export queue.
func (s *Snapshot) Sampled() bool {
	return s.Context.IsSampled()
}
