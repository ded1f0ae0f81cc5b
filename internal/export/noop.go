package export

import "context"

// Noop is an exporter whose every call trivially succeeds. It is used
// when a signal is disabled so the pipeline wiring stays uniform.
type Noop[T any] struct{}

// NewNoop creates a no-op exporter.
func NewNoop[T any]() *Noop[T] { return &Noop[T]{} }

// Run blocks until ctx is cancelled.
func (*Noop[T]) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Export discards the batch.
func (*Noop[T]) Export(context.Context, []T) error { return nil }

// ForceFlush does nothing.
func (*Noop[T]) ForceFlush(context.Context) error { return nil }

// Shutdown does nothing.
func (*Noop[T]) Shutdown(context.Context) {}
