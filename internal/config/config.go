package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/lightline-io/lightline/internal/logging"
)

// Built-in defaults, per the OpenTelemetry SDK environment spec.
const (
	DefaultMaxQueueSize       = 2048
	DefaultMaxExportBatchSize = 512
	DefaultExportTimeout      = 30 * time.Second
	DefaultSpanScheduleDelay  = 5 * time.Second
	DefaultLogScheduleDelay   = 1 * time.Second

	DefaultMetricExportInterval = 60 * time.Second
	DefaultMetricExportTimeout  = 30 * time.Second
)

// BatchConfig configures one batch record processor. All fields are
// non-negative; invalid overrides from the environment are rejected and
// the default value retained (fail-soft, not fail-fast).
type BatchConfig struct {
	MaxQueueSize       int
	ScheduleDelay      time.Duration
	MaxExportBatchSize int
	ExportTimeout      time.Duration
}

// ReaderConfig configures the periodic metric reader.
type ReaderConfig struct {
	ExportInterval time.Duration
	ExportTimeout  time.Duration
}

// DefaultSpanBatch returns the default span processor configuration.
func DefaultSpanBatch() BatchConfig {
	return BatchConfig{
		MaxQueueSize:       DefaultMaxQueueSize,
		ScheduleDelay:      DefaultSpanScheduleDelay,
		MaxExportBatchSize: DefaultMaxExportBatchSize,
		ExportTimeout:      DefaultExportTimeout,
	}
}

// DefaultLogBatch returns the default log processor configuration.
func DefaultLogBatch() BatchConfig {
	return BatchConfig{
		MaxQueueSize:       DefaultMaxQueueSize,
		ScheduleDelay:      DefaultLogScheduleDelay,
		MaxExportBatchSize: DefaultMaxExportBatchSize,
		ExportTimeout:      DefaultExportTimeout,
	}
}

// DefaultReader returns the default metric reader configuration.
func DefaultReader() ReaderConfig {
	return ReaderConfig{
		ExportInterval: DefaultMetricExportInterval,
		ExportTimeout:  DefaultMetricExportTimeout,
	}
}

// rawBatchEnv receives the raw string values of the processor keys.
// Values stay strings so one malformed variable degrades to its default
// instead of failing the whole load.
type rawBatchEnv struct {
	MaxQueueSize       string `envconfig:"MAX_QUEUE_SIZE"`
	ScheduleDelay      string `envconfig:"SCHEDULE_DELAY"`
	MaxExportBatchSize string `envconfig:"MAX_EXPORT_BATCH_SIZE"`
	ExportTimeout      string `envconfig:"EXPORT_TIMEOUT"`
}

type rawReaderEnv struct {
	ExportInterval string `envconfig:"EXPORT_INTERVAL"`
	ExportTimeout  string `envconfig:"EXPORT_TIMEOUT"`
}

// SpanBatchFromEnv resolves the span processor configuration from the
// OTEL_BSP_* environment variables layered over the defaults.
func SpanBatchFromEnv(logger *logging.Logger) BatchConfig {
	return batchFromEnv("OTEL_BSP", DefaultSpanBatch(), logger)
}

// LogBatchFromEnv resolves the log processor configuration from the
// OTEL_BLRP_* environment variables layered over the defaults.
func LogBatchFromEnv(logger *logging.Logger) BatchConfig {
	return batchFromEnv("OTEL_BLRP", DefaultLogBatch(), logger)
}

// ReaderFromEnv resolves the metric reader configuration from the
// OTEL_METRIC_* environment variables layered over the defaults.
func ReaderFromEnv(logger *logging.Logger) ReaderConfig {
	if logger == nil {
		logger = logging.NewNop()
	}
	cfg := DefaultReader()

	var raw rawReaderEnv
	if err := envconfig.Process("OTEL_METRIC", &raw); err != nil {
		logger.Warn("failed to read metric reader environment", zap.Error(err))
		return cfg
	}
	cfg.ExportInterval = overrideDuration(cfg.ExportInterval, raw.ExportInterval, "OTEL_METRIC_EXPORT_INTERVAL", logger)
	cfg.ExportTimeout = overrideDuration(cfg.ExportTimeout, raw.ExportTimeout, "OTEL_METRIC_EXPORT_TIMEOUT", logger)
	return cfg
}

func batchFromEnv(prefix string, cfg BatchConfig, logger *logging.Logger) BatchConfig {
	if logger == nil {
		logger = logging.NewNop()
	}

	var raw rawBatchEnv
	if err := envconfig.Process(prefix, &raw); err != nil {
		logger.Warn("failed to read processor environment", zap.String("prefix", prefix), zap.Error(err))
		return cfg
	}
	cfg.MaxQueueSize = overrideInt(cfg.MaxQueueSize, raw.MaxQueueSize, prefix+"_MAX_QUEUE_SIZE", logger)
	cfg.ScheduleDelay = overrideDuration(cfg.ScheduleDelay, raw.ScheduleDelay, prefix+"_SCHEDULE_DELAY", logger)
	cfg.MaxExportBatchSize = overrideInt(cfg.MaxExportBatchSize, raw.MaxExportBatchSize, prefix+"_MAX_EXPORT_BATCH_SIZE", logger)
	cfg.ExportTimeout = overrideDuration(cfg.ExportTimeout, raw.ExportTimeout, prefix+"_EXPORT_TIMEOUT", logger)

	// A batch can never exceed the queue it is sliced from.
	if cfg.MaxExportBatchSize > cfg.MaxQueueSize {
		cfg.MaxExportBatchSize = cfg.MaxQueueSize
	}
	return cfg
}

// overrideInt applies a non-negative integer override, keeping the
// current value when the raw string is absent or invalid.
func overrideInt(current int, raw, key string, logger *logging.Logger) int {
	if raw == "" {
		return current
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		logger.Warn("ignoring invalid environment value",
			zap.String("key", key), zap.String("value", raw))
		return current
	}
	return v
}

// overrideDuration applies a millisecond-count override, keeping the
// current value when the raw string is absent or invalid. Durations in
// the OTel environment are integral milliseconds.
func overrideDuration(current time.Duration, raw, key string, logger *logging.Logger) time.Duration {
	if raw == "" {
		return current
	}
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || ms < 0 {
		logger.Warn("ignoring invalid environment value",
			zap.String("key", key), zap.String("value", raw))
		return current
	}
	return time.Duration(ms) * time.Millisecond
}
