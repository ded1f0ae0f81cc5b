// Package log holds the log-record data model consumed by the batch
// processor. A Record stays mutable until it is handed to a processor's
// OnEmit, which is the last moment fields may be enriched (for example
// with trace correlation metadata); after that, ownership passes to the
// export path and the record must not be touched again.
package log

import (
	"time"

	"github.com/lightline-io/lightline/internal/attribute"
	"github.com/lightline-io/lightline/internal/resource"
	"github.com/lightline-io/lightline/internal/trace"
)

// Severity is the numeric log level, following the OTLP severity number
// space (1..24 in blocks of four per level).
type Severity int

const (
	SeverityUnspecified Severity = 0
	SeverityTrace       Severity = 1
	SeverityDebug       Severity = 5
	SeverityInfo        Severity = 9
	SeverityWarn        Severity = 13
	SeverityError       Severity = 17
	SeverityFatal       Severity = 21
)

// String returns the canonical severity text.
func (s Severity) String() string {
	switch {
	case s >= SeverityFatal:
		return "FATAL"
	case s >= SeverityError:
		return "ERROR"
	case s >= SeverityWarn:
		return "WARN"
	case s >= SeverityInfo:
		return "INFO"
	case s >= SeverityDebug:
		return "DEBUG"
	case s >= SeverityTrace:
		return "TRACE"
	default:
		return "UNSPECIFIED"
	}
}

// Record is a single log record. Body, severity, attributes and
// timestamps are mutable until the record is handed off; the resource is
// fixed at creation and the span context, once set, is fixed as well.
type Record struct {
	Body         string
	Severity     Severity
	SeverityText string
	Time         time.Time
	ObservedTime time.Time

	attrs       []attribute.KeyValue
	res         *resource.Resource
	spanContext trace.SpanContext
}

// NewRecord creates a record bound to the given resource.
func NewRecord(res *resource.Resource) *Record {
	return &Record{res: res, ObservedTime: time.Now()}
}

// AddAttributes appends attributes to the record. Invalid attributes are
// discarded.
func (r *Record) AddAttributes(attrs ...attribute.KeyValue) {
	for _, kv := range attrs {
		if kv.Valid() {
			r.attrs = append(r.attrs, kv)
		}
	}
}

// Attributes returns the record's attributes. The returned slice is the
// record's own storage; callers enriching the record may append via
// AddAttributes but must not retain the slice past hand-off.
func (r *Record) Attributes() []attribute.KeyValue { return r.attrs }

// Resource returns the fixed resource the record was created under.
func (r *Record) Resource() *resource.Resource { return r.res }

// SetSpanContext attaches trace correlation to the record. Only the first
// valid context sticks; later calls are ignored.
func (r *Record) SetSpanContext(sc trace.SpanContext) {
	if !r.spanContext.IsValid() && sc.IsValid() {
		r.spanContext = sc
	}
}

// SpanContext returns the attached span context, which is the zero value
// when the record is not correlated with a trace.
func (r *Record) SpanContext() trace.SpanContext { return r.spanContext }
