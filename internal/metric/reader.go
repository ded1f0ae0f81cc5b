package metric

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
	"github.com/lightline-io/lightline/internal/resource"
)

// SignalMetrics labels the metric pipeline in logs and metrics.
const SignalMetrics = "metrics"

// ErrAlreadyRunning is returned when Run is called on a reader whose loop
// has already been started.
var ErrAlreadyRunning = errors.New("metric: reader already running")

// ReaderOptions carries the optional collaborators of a reader.
type ReaderOptions struct {
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
	// Resource is the envelope attached to every exported snapshot.
	Resource *resource.Resource
}

// PeriodicReader pulls a snapshot from a producer on a fixed interval and
// hands it to an exporter. There is no queue: if one tick's export has
// not completed when the next tick fires, the next tick still triggers an
// independent collect+export attempt. A failed cycle is logged and never
// halts the loop.
type PeriodicReader struct {
	cfg      config.ReaderConfig
	producer Producer
	exporter export.Exporter[Snapshot]
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	res      *resource.Resource
	failures *logging.Throttle

	running atomic.Bool
	// inflight tracks overlapping tick exports so shutdown can await them.
	inflight sync.WaitGroup
}

// NewPeriodicReader creates a reader pulling from producer on every tick
// of cfg.ExportInterval.
func NewPeriodicReader(producer Producer, exporter export.Exporter[Snapshot], cfg config.ReaderConfig, opts ReaderOptions) *PeriodicReader {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.ExportInterval <= 0 {
		cfg.ExportInterval = config.DefaultMetricExportInterval
	}
	return &PeriodicReader{
		cfg:      cfg,
		producer: producer,
		exporter: exporter,
		logger:   logger.Named(SignalMetrics),
		metrics:  opts.Metrics,
		res:      opts.Resource,
		failures: logging.NewThrottle(time.Minute),
	}
}

// Run is the reader's long-lived loop. On cancellation of ctx it performs
// one final synchronous collect+export, flushes the exporter and shuts it
// down before returning.
func (r *PeriodicReader) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	expCtx, expCancel := context.WithCancel(context.Background())
	defer expCancel()
	expDone := make(chan error, 1)
	go func() {
		expDone <- r.exporter.Run(expCtx)
	}()

	ticker := time.NewTicker(r.cfg.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			expCancel()
			<-expDone
			return nil

		case err := <-expDone:
			if err == nil {
				err = errors.New("exporter run loop terminated")
			}
			return fmt.Errorf("metric reader: %w", err)

		case <-ticker.C:
			// Each tick is independent; a slow export must not delay or
			// coalesce the next tick's collection.
			r.inflight.Add(1)
			go func() {
				defer r.inflight.Done()
				r.collectAndExport(context.Background())
			}()
		}
	}
}

// ForceFlush performs one collect+export cycle immediately.
func (r *PeriodicReader) ForceFlush(ctx context.Context) error {
	return r.cycle(ctx)
}

// collectAndExport runs one cycle and routes failures to the diagnostic
// log: warnings for timeouts, errors for everything else.
func (r *PeriodicReader) collectAndExport(ctx context.Context) {
	err := r.cycle(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		r.failures.Do(func(suppressed int) {
			r.logger.Warn("metric export timed out", logging.Signal(SignalMetrics),
				zap.Int("suppressed", suppressed), zap.Error(err))
		})
	default:
		r.failures.Do(func(suppressed int) {
			r.logger.Error("metric export failed", logging.Signal(SignalMetrics),
				zap.Int("suppressed", suppressed), zap.Error(err))
		})
	}
}

// cycle calls the producer, then exports the snapshot, the whole cycle
// bounded by the export timeout.
func (r *PeriodicReader) cycle(ctx context.Context) error {
	start := time.Now()
	if r.cfg.ExportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ExportTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		produced, err := r.producer.Produce(ctx)
		if err != nil {
			done <- fmt.Errorf("produce: %w", err)
			return
		}
		if len(produced) == 0 {
			done <- nil
			return
		}
		done <- r.exporter.Export(ctx, []Snapshot{{Resource: r.res, Metrics: produced}})
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if r.metrics != nil {
		outcome := monitoring.OutcomeOK
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			outcome = monitoring.OutcomeTimeout
		case err != nil:
			outcome = monitoring.OutcomeError
		}
		r.metrics.RecordExport(SignalMetrics, outcome, 1, time.Since(start))
	}
	return err
}

// shutdown performs the final cycle and tears the exporter down, in
// order: final collect+export, exporter ForceFlush, exporter Shutdown.
func (r *PeriodicReader) shutdown() {
	r.inflight.Wait()

	ctx := context.Background()
	r.collectAndExport(ctx)
	if err := r.exporter.ForceFlush(ctx); err != nil {
		r.logger.Warn("exporter flush failed", logging.Signal(SignalMetrics), zap.Error(err))
	}
	r.exporter.Shutdown(ctx)
}
