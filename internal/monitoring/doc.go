// Package monitoring exposes the pipeline's own health as Prometheus
// metrics: queue depth, drop counts, export outcomes and latencies.
//
// Telemetry loss is silent-by-design at the API surface; these metrics
// and the diagnostic log lines are the only places it becomes visible.
package monitoring
