package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/export"
	"github.com/lightline-io/lightline/internal/logging"
	"github.com/lightline-io/lightline/internal/monitoring"
)

// ErrAlreadyRunning is returned when Run is called on a processor whose
// loop has already been started.
var ErrAlreadyRunning = errors.New("pipeline: processor already running")

// Options carries the optional collaborators of a processor.
type Options struct {
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
}

// BatchProcessor turns a stream of individually emitted items into
// periodic bounded batches handed to an exporter.
//
// Items enter through Enqueue, which never blocks the caller: when the
// queue is at capacity the item is discarded and a drop counter
// increments. A background loop ticks either on a schedule or the instant
// the queue fills, slices up to MaxExportBatchSize items off the head,
// and exports them under an export-timeout deadline. Batches are strictly
// FIFO and non-overlapping. The processor never retries a failed batch;
// retrying, if any, is the transport exporter's concern.
type BatchProcessor[T any] struct {
	signal   string
	cfg      config.BatchConfig
	exporter export.Exporter[T]
	gate     func(T) bool
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	// failures throttles the export-failure warning: a downed collector
	// fails every tick and would flood the diagnostic log otherwise.
	failures *logging.Throttle

	mu      sync.Mutex
	queue   []T
	dropped int

	// queueFull is the explicit tick raised synchronously when the queue
	// reaches capacity, so a burst does not wait for the next scheduled
	// tick. Capacity one: coalescing repeated signals is fine, a single
	// tick drains a full batch either way.
	queueFull chan struct{}

	running atomic.Bool
}

// NewBatchProcessor creates a processor for the named signal. gate
// decides whether an item is admitted to the queue at all; a nil gate
// admits everything.
func NewBatchProcessor[T any](signal string, exporter export.Exporter[T], cfg config.BatchConfig, gate func(T) bool, opts Options) *BatchProcessor[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = config.DefaultMaxQueueSize
	}
	if cfg.MaxExportBatchSize <= 0 || cfg.MaxExportBatchSize > cfg.MaxQueueSize {
		cfg.MaxExportBatchSize = min(config.DefaultMaxExportBatchSize, cfg.MaxQueueSize)
	}
	return &BatchProcessor[T]{
		signal:    signal,
		cfg:       cfg,
		exporter:  exporter,
		gate:      gate,
		logger:    logger.Named(signal),
		metrics:   opts.Metrics,
		failures:  logging.NewThrottle(time.Minute),
		queueFull: make(chan struct{}, 1),
	}
}

// Enqueue admits one item to the queue. It is non-blocking, safe for
// arbitrary concurrent callers, and never reports an error back to the
// emitting application: gated-out items are ignored, and items arriving
// at a full queue are silently counted as dropped.
func (p *BatchProcessor[T]) Enqueue(item T) {
	if p.gate != nil && !p.gate(item) {
		return
	}

	p.mu.Lock()
	if len(p.queue) >= p.cfg.MaxQueueSize {
		p.dropped++
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.RecordDropped(p.signal, 1)
		}
		return
	}
	p.queue = append(p.queue, item)
	full := len(p.queue) >= p.cfg.MaxQueueSize
	depth := len(p.queue)
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RecordEnqueued(p.signal, 1)
		p.metrics.SetQueueDepth(p.signal, depth)
	}
	if full {
		select {
		case p.queueFull <- struct{}{}:
		default:
		}
	}
}

// Run is the processor's long-lived background loop. It supervises the
// exporter's own Run loop, ticks on the merged schedule/queue-full
// stream, and on cancellation of ctx performs the graceful shutdown
// sequence: drain the whole queue, flush the exporter, shut it down.
//
// An exporter Run loop that terminates before shutdown is an unexpected
// dependency failure and is returned as an error to the supervisor.
func (p *BatchProcessor[T]) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	// The exporter loop outlives ctx: the shutdown flush still needs a
	// live exporter, so its context is cancelled only after teardown.
	expCtx, expCancel := context.WithCancel(context.Background())
	defer expCancel()
	expDone := make(chan error, 1)
	go func() {
		expDone <- p.exporter.Run(expCtx)
	}()

	var tick <-chan time.Time
	if p.cfg.ScheduleDelay > 0 {
		ticker := time.NewTicker(p.cfg.ScheduleDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			p.shutdown()
			expCancel()
			<-expDone
			return nil

		case err := <-expDone:
			if err == nil {
				err = errors.New("exporter run loop terminated")
			}
			return fmt.Errorf("pipeline %s: %w", p.signal, err)

		case <-tick:
			p.exportTick()

		case <-p.queueFull:
			p.exportTick()
		}
	}
}

// ForceFlush drains the entire queue, slicing it into batch-sized chunks
// exported concurrently, each individually bounded by the export timeout.
// One chunk timing out does not cancel its siblings; all chunks are
// awaited and the first error is returned.
func (p *BatchProcessor[T]) ForceFlush(ctx context.Context) error {
	chunks := p.drain()
	if len(chunks) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			if err := p.exportBatch(ctx, chunk); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(chunk)
	}
	wg.Wait()
	return firstErr
}

// Dropped returns the number of items discarded since the last tick that
// reported them.
func (p *BatchProcessor[T]) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// queueLen returns the current queue depth.
func (p *BatchProcessor[T]) queueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// exportTick exports one batch from the head of the queue. A tick with an
// empty queue is a no-op. Export failures are logged and swallowed; the
// loop always continues.
func (p *BatchProcessor[T]) exportTick() {
	batch, dropped := p.takeBatch()
	if dropped > 0 {
		p.logger.Warn("telemetry items dropped at full queue",
			logging.Signal(p.signal),
			zap.Int("dropped_count", dropped))
	}
	if len(batch) == 0 {
		return
	}

	if err := p.exportBatch(context.Background(), batch); err != nil {
		// The batch is lost; batch processors do not retry.
		p.failures.Do(func(suppressed int) {
			p.logger.Warn("export failed",
				logging.Signal(p.signal),
				zap.Int("batch_size", len(batch)),
				zap.Int("suppressed", suppressed),
				zap.Error(err))
		})
	}
}

// exportBatch submits one batch inside a race against the export timeout.
// If the timer wins, the call is cancelled and the deadline error
// returned; the export goroutine is left to observe its cancelled context
// so a misbehaving exporter cannot wedge the loop.
func (p *BatchProcessor[T]) exportBatch(ctx context.Context, batch []T) error {
	start := time.Now()
	if p.cfg.ExportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ExportTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- p.exporter.Export(ctx, batch)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if p.metrics != nil {
		outcome := monitoring.OutcomeOK
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			outcome = monitoring.OutcomeTimeout
		case err != nil:
			outcome = monitoring.OutcomeError
		}
		p.metrics.RecordExport(p.signal, outcome, len(batch), time.Since(start))
	}
	return err
}

// takeBatch slices up to MaxExportBatchSize items off the queue head and
// collects the dropped count accumulated since the previous tick.
func (p *BatchProcessor[T]) takeBatch() (batch []T, dropped int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dropped = p.dropped
	p.dropped = 0

	n := min(len(p.queue), p.cfg.MaxExportBatchSize)
	if n == 0 {
		return nil, dropped
	}
	batch = make([]T, n)
	copy(batch, p.queue[:n])
	p.queue = append(p.queue[:0], p.queue[n:]...)

	if p.metrics != nil {
		p.metrics.SetQueueDepth(p.signal, len(p.queue))
	}
	return batch, dropped
}

// drain empties the whole queue into batch-sized chunks, preserving FIFO
// order within and across chunks.
func (p *BatchProcessor[T]) drain() [][]T {
	p.mu.Lock()
	queue := p.queue
	p.queue = nil
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.SetQueueDepth(p.signal, 0)
	}

	var chunks [][]T
	for len(queue) > 0 {
		n := min(len(queue), p.cfg.MaxExportBatchSize)
		chunks = append(chunks, queue[:n:n])
		queue = queue[n:]
	}
	return chunks
}

// shutdown runs the graceful teardown sequence exactly once per Run:
// drain the remaining queue fully, flush the exporter, then shut it down.
// The drain must complete (or time out per chunk) before the exporter
// shutdown proceeds.
func (p *BatchProcessor[T]) shutdown() {
	ctx := context.Background()
	if err := p.ForceFlush(ctx); err != nil {
		p.logger.Warn("shutdown flush failed",
			logging.Signal(p.signal), zap.Error(err))
	}
	if err := p.exporter.ForceFlush(ctx); err != nil {
		p.logger.Warn("exporter flush failed",
			logging.Signal(p.signal), zap.Error(err))
	}
	p.exporter.Shutdown(ctx)
}
