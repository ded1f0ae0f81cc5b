package metric

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightline-io/lightline/internal/attribute"
	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/resource"
)

type countingProducer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProducer) Produce(context.Context) ([]Metrics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return []Metrics{{
		Name:       "test.calls",
		Kind:       KindCounter,
		Monotonic:  true,
		DataPoints: []DataPoint{{Time: time.Now(), Value: float64(p.calls)}},
	}}, nil
}

func (p *countingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type snapshotExporter struct {
	mu        sync.Mutex
	snapshots []Snapshot
	flushes   int
	shutdowns int
	hang      bool
}

func (e *snapshotExporter) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (e *snapshotExporter) Export(ctx context.Context, batch []Snapshot) error {
	if e.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshots = append(e.snapshots, batch...)
	return nil
}

func (e *snapshotExporter) ForceFlush(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushes++
	return nil
}

func (e *snapshotExporter) Shutdown(context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdowns++
}

func (e *snapshotExporter) exported() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Snapshot, len(e.snapshots))
	copy(out, e.snapshots)
	return out
}

func TestPeriodicReaderTicks(t *testing.T) {
	producer := &countingProducer{}
	exp := &snapshotExporter{}
	r := NewPeriodicReader(producer, exp, config.ReaderConfig{
		ExportInterval: 5 * time.Millisecond,
		ExportTimeout:  time.Second,
	}, ReaderOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(exp.exported()) >= 3
	}, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	// The shutdown sequence adds one final cycle, then flushes and shuts
	// the exporter down.
	assert.GreaterOrEqual(t, producer.count(), 4)
	assert.Equal(t, 1, exp.flushes)
	assert.Equal(t, 1, exp.shutdowns)
}

func TestPeriodicReaderAttachesResource(t *testing.T) {
	res := resource.New(attribute.String("service.name", "checkout"))
	producer := &countingProducer{}
	exp := &snapshotExporter{}
	r := NewPeriodicReader(producer, exp, config.ReaderConfig{
		ExportInterval: time.Hour,
		ExportTimeout:  time.Second,
	}, ReaderOptions{Resource: res})

	require.NoError(t, r.ForceFlush(context.Background()))

	snaps := exp.exported()
	require.Len(t, snaps, 1)
	assert.Same(t, res, snaps[0].Resource)
	require.Len(t, snaps[0].Metrics, 1)
	assert.Equal(t, "test.calls", snaps[0].Metrics[0].Name)
}

func TestPeriodicReaderExportTimeout(t *testing.T) {
	producer := &countingProducer{}
	exp := &snapshotExporter{hang: true}
	r := NewPeriodicReader(producer, exp, config.ReaderConfig{
		ExportInterval: time.Hour,
		ExportTimeout:  20 * time.Millisecond,
	}, ReaderOptions{})

	start := time.Now()
	err := r.ForceFlush(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPeriodicReaderProducerError(t *testing.T) {
	producer := &countingProducer{err: errors.New("collection failed")}
	exp := &snapshotExporter{}
	r := NewPeriodicReader(producer, exp, config.DefaultReader(), ReaderOptions{})

	err := r.ForceFlush(context.Background())
	require.ErrorContains(t, err, "collection failed")
	assert.Empty(t, exp.exported())
}

func TestPeriodicReaderRunTwice(t *testing.T) {
	r := NewPeriodicReader(&countingProducer{}, &snapshotExporter{}, config.DefaultReader(), ReaderOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return r.running.Load()
	}, time.Second, time.Millisecond)
	require.ErrorIs(t, r.Run(ctx), ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
}

func TestRuntimeProducer(t *testing.T) {
	producer := NewRuntimeProducer()
	metrics, err := producer.Produce(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, metrics)

	names := make(map[string]Kind, len(metrics))
	for _, m := range metrics {
		require.NotEmpty(t, m.DataPoints)
		names[m.Name] = m.Kind
	}
	assert.Contains(t, names, "process.runtime.go.goroutines")
	assert.Contains(t, names, "process.runtime.go.mem.heap_alloc")
}
