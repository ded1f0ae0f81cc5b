// Package trace holds the span-identity data model for the telemetry
// pipeline: span contexts and their W3C traceparent/tracestate wire form,
// trace and span ID generation, the sampler family that gates what gets
// recorded, and the immutable finished-span snapshot consumed by the
// batch processor.
//
// A SpanContext is fully determined at span start and never mutated.
// Sampling is decided once, at span creation, and the decision is encoded
// into the context's sampled flag; unsampled spans never reach the export
// queue.
package trace
