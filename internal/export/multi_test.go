package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExporter records calls and can be made to fail or hang.
type stubExporter[T any] struct {
	mu        sync.Mutex
	batches   [][]T
	flushes   int
	shutdowns int

	exportErr error
	hang      bool
}

func (s *stubExporter[T]) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *stubExporter[T]) Export(ctx context.Context, batch []T) error {
	if s.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return s.exportErr
}

func (s *stubExporter[T]) ForceFlush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *stubExporter[T]) Shutdown(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
}

func TestMultiExportFansOut(t *testing.T) {
	a := &stubExporter[int]{}
	b := &stubExporter[int]{}
	m := NewMulti[int](a, b)

	batch := []int{1, 2, 3}
	require.NoError(t, m.Export(context.Background(), batch))

	require.Len(t, a.batches, 1)
	require.Len(t, b.batches, 1)
	assert.Equal(t, batch, a.batches[0])
	assert.Equal(t, batch, b.batches[0])
}

func TestMultiExportFirstErrorCancelsSiblings(t *testing.T) {
	failure := errors.New("backend down")
	failing := &stubExporter[int]{exportErr: failure}
	hanging := &stubExporter[int]{hang: true}
	m := NewMulti[int](failing, hanging)

	start := time.Now()
	err := m.Export(context.Background(), []int{1})
	require.ErrorIs(t, err, failure)
	// The hanging sibling must have been released by the cancel, not by a
	// timeout.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMultiForceFlushAndShutdown(t *testing.T) {
	a := &stubExporter[int]{}
	b := &stubExporter[int]{}
	m := NewMulti[int](a, b)

	require.NoError(t, m.ForceFlush(context.Background()))
	m.Shutdown(context.Background())

	assert.Equal(t, 1, a.flushes)
	assert.Equal(t, 1, b.flushes)
	assert.Equal(t, 1, a.shutdowns)
	assert.Equal(t, 1, b.shutdowns)
}

func TestMultiEmpty(t *testing.T) {
	m := NewMulti[int]()
	assert.NoError(t, m.Export(context.Background(), []int{1}))
	assert.NoError(t, m.ForceFlush(context.Background()))
}

func TestNoop(t *testing.T) {
	exp := NewNoop[int]()
	assert.NoError(t, exp.Export(context.Background(), []int{1}))
	assert.NoError(t, exp.ForceFlush(context.Background()))
	exp.Shutdown(context.Background())
}
