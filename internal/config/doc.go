// Package config resolves pipeline configuration from the environment.
//
// Resolution order, lowest to highest precedence:
//   - built-in defaults (queue size 2048, schedule delay 5s for spans and
//     1s for logs, max export batch size 512, export timeout 30s)
//   - shared environment keys (OTEL_EXPORTER_OTLP_*)
//   - signal-specific environment keys (OTEL_BSP_*, OTEL_BLRP_*,
//     OTEL_METRIC_*, OTEL_EXPORTER_OTLP_TRACES_* and friends)
//   - programmatic values supplied by the embedding application
//
// Invalid values never fail the load: each malformed variable is logged
// and the previous value for that field is retained.
package config
