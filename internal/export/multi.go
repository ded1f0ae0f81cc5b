package export

import (
	"context"
	"sync"
)

// Multi fans every call out to N child exporters concurrently. A call
// completes only once every child has completed: on a child failure the
// siblings are signalled to cancel via context, but their completion is
// still awaited before the first error is reported, so a failure is never
// silently partial.
type Multi[T any] struct {
	exporters []Exporter[T]
}

// NewMulti wraps the given exporters in a fan-out composite.
func NewMulti[T any](exporters ...Exporter[T]) *Multi[T] {
	return &Multi[T]{exporters: exporters}
}

// fanOut runs fn against every child concurrently, cancels the shared
// context on the first error, awaits all children, and returns that first
// error.
func (m *Multi[T]) fanOut(ctx context.Context, fn func(ctx context.Context, e Exporter[T]) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, e := range m.exporters {
		wg.Add(1)
		go func(e Exporter[T]) {
			defer wg.Done()
			if err := fn(ctx, e); err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(e)
	}
	wg.Wait()
	return firstErr
}

// Run starts every child's background loop concurrently and waits for
// all of them. A child loop terminating with an error cancels the
// siblings and is reported once they have all returned.
func (m *Multi[T]) Run(ctx context.Context) error {
	return m.fanOut(ctx, func(ctx context.Context, e Exporter[T]) error {
		return e.Run(ctx)
	})
}

// Export dispatches the same batch to every child concurrently.
func (m *Multi[T]) Export(ctx context.Context, batch []T) error {
	return m.fanOut(ctx, func(ctx context.Context, e Exporter[T]) error {
		return e.Export(ctx, batch)
	})
}

// ForceFlush flushes every child concurrently.
func (m *Multi[T]) ForceFlush(ctx context.Context) error {
	return m.fanOut(ctx, func(ctx context.Context, e Exporter[T]) error {
		return e.ForceFlush(ctx)
	})
}

// Shutdown shuts every child down concurrently. Per the exporter
// contract, individual shutdowns are best-effort and report nothing.
func (m *Multi[T]) Shutdown(ctx context.Context) {
	var wg sync.WaitGroup
	for _, e := range m.exporters {
		wg.Add(1)
		go func(e Exporter[T]) {
			defer wg.Done()
			e.Shutdown(ctx)
		}(e)
	}
	wg.Wait()
}
