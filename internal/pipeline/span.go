package pipeline

import (
	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/export"
	"github.com/lightline-io/lightline/internal/trace"
)

// SignalTraces labels the span pipeline in logs and metrics.
const SignalTraces = "traces"

// SpanProcessor is the batch processor instantiation for finished spans.
// Only sampled spans pass its gate: a span whose context lacks the
// sampled flag never enters the queue.
type SpanProcessor struct {
	*BatchProcessor[*trace.Snapshot]
}

// NewSpanProcessor creates a span batch processor over the exporter.
func NewSpanProcessor(exporter export.Exporter[*trace.Snapshot], cfg config.BatchConfig, opts Options) *SpanProcessor {
	return &SpanProcessor{
		BatchProcessor: NewBatchProcessor(SignalTraces, exporter, cfg,
			func(s *trace.Snapshot) bool { return s != nil && s.Sampled() },
			opts),
	}
}

// OnEnd accepts a finished span snapshot from the tracer. The snapshot is
// immutable; the tracer took it exactly once at span end and this
// processor consumes it exactly once.
func (p *SpanProcessor) OnEnd(s *trace.Snapshot) {
	p.Enqueue(s)
}
