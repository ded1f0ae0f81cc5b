package export

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bytedance/sonic"
)

// Console writes each exported item to a writer as one JSON line. It is
// meant for local development and debugging; ForceFlush and Shutdown are
// no-ops because every Export call writes through synchronously.
type Console[T any] struct {
	mu        sync.Mutex
	w         io.Writer
	transform func(T) interface{}
}

// NewConsole creates a console exporter writing to w. transform maps an
// item to its JSON-encodable view; nil encodes the item as-is.
func NewConsole[T any](w io.Writer, transform func(T) interface{}) *Console[T] {
	return &Console[T]{w: w, transform: transform}
}

// Run blocks until ctx is cancelled.
func (c *Console[T]) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Export writes each item in the batch as a JSON line. Items are written
// under one lock so concurrent batches do not interleave.
func (c *Console[T]) Export(ctx context.Context, batch []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := interface{}(item)
		if c.transform != nil {
			view = c.transform(item)
		}
		encoded, err := sonic.Marshal(view)
		if err != nil {
			return fmt.Errorf("console exporter: encode: %w", err)
		}
		if _, err := c.w.Write(append(encoded, '\n')); err != nil {
			return fmt.Errorf("console exporter: write: %w", err)
		}
	}
	return nil
}

// ForceFlush does nothing; writes are synchronous.
func (c *Console[T]) ForceFlush(context.Context) error { return nil }

// Shutdown does nothing.
func (c *Console[T]) Shutdown(context.Context) {}
