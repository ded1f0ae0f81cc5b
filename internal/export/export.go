// Package export defines the exporter boundary of the telemetry pipeline
// and its composition strategies: no-op, console, and multiplex fan-out.
//
// An exporter delivers finished batches to a sink. Every implementation
// follows the same contract: Run is an optional long-lived background
// loop (a no-op implementation merely awaits cancellation), Export and
// ForceFlush may fail, and Shutdown is best-effort and never fails.
// Exporters must tolerate concurrent Export calls; a multiplex wrapper
// shares its children across concurrent callers without external locking.
package export

import "context"

// Exporter delivers batches of telemetry items of type T to a sink.
type Exporter[T any] interface {
	// Run is the exporter's background loop (connection keepalive and
	// the like). It blocks until ctx is cancelled or the exporter fails;
	// a non-nil return outside cancellation is fatal to the owning
	// processor.
	Run(ctx context.Context) error

	// Export delivers one batch. The caller bounds the call with a
	// deadline on ctx; implementations must respect cancellation.
	Export(ctx context.Context, batch []T) error

	// ForceFlush pushes any buffered data to the sink.
	ForceFlush(ctx context.Context) error

	// Shutdown releases resources. Best-effort: it never reports an
	// error and must be safe to call after Run has returned.
	Shutdown(ctx context.Context)
}
