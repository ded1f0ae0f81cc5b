// Package pipeline implements the telemetry batching pipeline: one
// generic producer/consumer batch processor parameterized over the
// exported item type, instantiated for finished spans and log records.
//
// The processor trades loss for boundedness: its queue is capped, items
// arriving at a full queue are counted and discarded, and no failed batch
// is retried. Emitting telemetry can therefore never block or fail the
// instrumented application.
package pipeline
