package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/logging"
	"github.com/lightline-io/lightline/internal/metric"
	"github.com/lightline-io/lightline/internal/monitoring"
	"github.com/lightline-io/lightline/internal/pipeline"
	"github.com/lightline-io/lightline/internal/resource"
	"github.com/lightline-io/lightline/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to agent config YAML")
	demo := flag.Bool("demo", false, "Emit synthetic telemetry through the pipeline")
	flag.Parse()

	cfg, err := config.LoadAgent(*configPath)
	if err != nil {
		logging.NewDefault().Fatal("failed to load agent config", zap.Error(err))
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		logging.NewDefault().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	res := resource.Detect()
	opts := pipeline.Options{Logger: logger, Metrics: metrics}

	spanExporter, err := buildSpanExporter(cfg.Exporters.Traces, logger)
	if err != nil {
		logger.Fatal("failed to build span exporter", zap.Error(err))
	}
	logExporter, err := buildLogExporter(cfg.Exporters.Logs, logger)
	if err != nil {
		logger.Fatal("failed to build log exporter", zap.Error(err))
	}
	metricExporter, err := buildMetricExporter(cfg.Exporters.Metrics, logger)
	if err != nil {
		logger.Fatal("failed to build metric exporter", zap.Error(err))
	}

	spanProcessor := pipeline.NewSpanProcessor(spanExporter, config.SpanBatchFromEnv(logger), opts)
	logProcessor := pipeline.NewLogProcessor(logExporter, config.LogBatchFromEnv(logger), opts)
	reader := metric.NewPeriodicReader(
		metric.NewRuntimeProducer(),
		metricExporter,
		config.ReaderFromEnv(logger),
		metric.ReaderOptions{Logger: logger, Metrics: metrics, Resource: res},
	)
	diagnostics := server.New(server.Config{Addr: cfg.Diagnostics.Addr}, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Each component is an independently supervised long-lived task; the
	// first fatal error tears the rest down.
	var wg sync.WaitGroup
	errCh := make(chan error, 4)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				logger.Error("task failed", zap.String("task", name), zap.Error(err))
				select {
				case errCh <- err:
				default:
				}
			}
		}()
	}

	run("span-processor", spanProcessor.Run)
	run("log-processor", logProcessor.Run)
	run("metric-reader", reader.Run)
	run("diagnostics", diagnostics.Run)

	if *demo {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runDemo(ctx, res, spanProcessor, logProcessor)
		}()
	}

	logger.Info("lightline agent started",
		zap.String("diagnostics_addr", cfg.Diagnostics.Addr),
		zap.Strings("trace_exporters", cfg.Exporters.Traces),
		zap.Strings("log_exporters", cfg.Exporters.Logs),
		zap.Strings("metric_exporters", cfg.Exporters.Metrics),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
	case err := <-errCh:
		logger.Error("shutting down after task failure", zap.Error(err))
		stop()
	}
	wg.Wait()
	logger.Info("lightline agent stopped")
}
