// Package otlp implements the OTLP transport exporters: gRPC unary calls
// and HTTP POSTs carrying protobuf or JSON payloads, with optional gzip
// compression and a transport-level retry policy.
//
// Retry here is deliberate layering: the batch processor drops a failed
// batch and moves on, so any retrying happens below it, inside these
// exporters, bounded by the caller's export-timeout context.
package otlp
