package trace

import (
	"encoding/binary"
	"fmt"

	"github.com/lightline-io/lightline/internal/attribute"
)

// Decision is the outcome of a sampling evaluation.
type Decision int

const (
	// Drop means the span is neither recorded nor exported.
	Drop Decision = iota
	// RecordAndSample means the span is recorded and its context carries
	// the sampled flag, admitting it to the export path.
	RecordAndSample
)

// String returns the string representation of the decision.
func (d Decision) String() string {
	switch d {
	case Drop:
		return "drop"
	case RecordAndSample:
		return "record_and_sample"
	default:
		return "unknown"
	}
}

// SamplingParameters carries everything a sampler may inspect. The
// decision is made once at span start and never re-evaluated.
type SamplingParameters struct {
	Name       string
	Kind       SpanKind
	TraceID    TraceID
	Attributes []attribute.KeyValue
	Links      []Link
	// Parent is the parent span context, or the zero SpanContext for
	// root spans.
	Parent SpanContext
}

// SamplingResult is the irrevocable outcome for a span's lifetime. The
// decision is encoded into the span context's sampled flag; sampler
// attributes are merged onto the span; the trace state is carried through
// unchanged unless the sampler replaces it.
type SamplingResult struct {
	Decision   Decision
	Attributes []attribute.KeyValue
	TraceState TraceState
}

// Sampler decides, at span-start time, whether a trace is recorded and
// exported. Implementations must be safe for concurrent use.
type Sampler interface {
	ShouldSample(p SamplingParameters) SamplingResult
	// Description identifies the sampler in diagnostics.
	Description() string
}

type alwaysOn struct{}

func (alwaysOn) ShouldSample(p SamplingParameters) SamplingResult {
	return SamplingResult{Decision: RecordAndSample, TraceState: p.Parent.TraceState()}
}

func (alwaysOn) Description() string { return "AlwaysOn" }

// AlwaysOn returns a sampler that samples every span regardless of input.
func AlwaysOn() Sampler { return alwaysOn{} }

type alwaysOff struct{}

func (alwaysOff) ShouldSample(p SamplingParameters) SamplingResult {
	return SamplingResult{Decision: Drop, TraceState: p.Parent.TraceState()}
}

func (alwaysOff) Description() string { return "AlwaysOff" }

// AlwaysOff returns a sampler that drops every span regardless of input.
func AlwaysOff() Sampler { return alwaysOff{} }

type traceIDRatio struct {
	ratio       float64
	upperBound  uint64
	description string
}

// TraceIDRatio returns a sampler that deterministically maps the trace ID
// to a value in [0,1) and samples when it falls below ratio. The same
// trace ID always yields the same decision, so the sampler is idempotent
// across repeated evaluation and consistent across services. Ratios
// outside [0,1] are clamped.
func TraceIDRatio(ratio float64) Sampler {
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return traceIDRatio{
		ratio: ratio,
		// The low 8 bytes of the trace ID are the uniformly random part.
		// Compare their top 63 bits against ratio * 2^63.
		upperBound:  uint64(ratio * (1 << 63)),
		description: fmt.Sprintf("TraceIDRatio{%g}", ratio),
	}
}

func (s traceIDRatio) ShouldSample(p SamplingParameters) SamplingResult {
	x := binary.BigEndian.Uint64(p.TraceID[8:16]) >> 1
	if x < s.upperBound {
		return SamplingResult{Decision: RecordAndSample, TraceState: p.Parent.TraceState()}
	}
	return SamplingResult{Decision: Drop, TraceState: p.Parent.TraceState()}
}

func (s traceIDRatio) Description() string { return s.description }

type parentBased struct {
	root Sampler
}

// ParentBased returns a sampler that mirrors the parent's sampled flag
// when a parent span context exists, keeping distributed traces all-in or
// all-out. Root spans fall through to the configured root sampler.
func ParentBased(root Sampler) Sampler {
	if root == nil {
		root = AlwaysOn()
	}
	return parentBased{root: root}
}

func (s parentBased) ShouldSample(p SamplingParameters) SamplingResult {
	if p.Parent.IsValid() {
		decision := Drop
		if p.Parent.IsSampled() {
			decision = RecordAndSample
		}
		return SamplingResult{Decision: decision, TraceState: p.Parent.TraceState()}
	}
	return s.root.ShouldSample(p)
}

func (s parentBased) Description() string {
	return fmt.Sprintf("ParentBased{root=%s}", s.root.Description())
}
