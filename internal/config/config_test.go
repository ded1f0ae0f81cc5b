package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lightline-io/lightline/internal/logging"
)

func TestBatchDefaults(t *testing.T) {
	span := DefaultSpanBatch()
	assert.Equal(t, 2048, span.MaxQueueSize)
	assert.Equal(t, 512, span.MaxExportBatchSize)
	assert.Equal(t, 5*time.Second, span.ScheduleDelay)
	assert.Equal(t, 30*time.Second, span.ExportTimeout)

	logs := DefaultLogBatch()
	assert.Equal(t, time.Second, logs.ScheduleDelay)
}

func TestSpanBatchFromEnv(t *testing.T) {
	t.Setenv("OTEL_BSP_MAX_QUEUE_SIZE", "100")
	t.Setenv("OTEL_BSP_SCHEDULE_DELAY", "2500")

	cfg := SpanBatchFromEnv(logging.NewNop())
	assert.Equal(t, 100, cfg.MaxQueueSize)
	assert.Equal(t, 2500*time.Millisecond, cfg.ScheduleDelay)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.ExportTimeout)
	// Batch size clamps to the shrunken queue.
	assert.Equal(t, 100, cfg.MaxExportBatchSize)
}

func TestBatchFromEnvFailSoft(t *testing.T) {
	t.Setenv("OTEL_BSP_MAX_QUEUE_SIZE", "not-a-number")
	t.Setenv("OTEL_BSP_EXPORT_TIMEOUT", "-5")

	cfg := SpanBatchFromEnv(logging.NewNop())
	assert.Equal(t, 2048, cfg.MaxQueueSize)
	assert.Equal(t, 30*time.Second, cfg.ExportTimeout)
}

func TestLogBatchUsesOwnPrefix(t *testing.T) {
	t.Setenv("OTEL_BSP_MAX_QUEUE_SIZE", "100")
	t.Setenv("OTEL_BLRP_MAX_QUEUE_SIZE", "200")

	assert.Equal(t, 200, LogBatchFromEnv(logging.NewNop()).MaxQueueSize)
	assert.Equal(t, 100, SpanBatchFromEnv(logging.NewNop()).MaxQueueSize)
}

func TestReaderFromEnv(t *testing.T) {
	t.Setenv("OTEL_METRIC_EXPORT_INTERVAL", "10000")

	cfg := ReaderFromEnv(logging.NewNop())
	assert.Equal(t, 10*time.Second, cfg.ExportInterval)
	assert.Equal(t, 30*time.Second, cfg.ExportTimeout)
}

func TestOverrideInt(t *testing.T) {
	logger := logging.NewNop()
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "absent", raw: "", want: 10},
		{name: "valid", raw: "42", want: 42},
		{name: "whitespace", raw: " 42 ", want: 42},
		{name: "negative", raw: "-1", want: 10},
		{name: "garbage", raw: "forty-two", want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overrideInt(10, tt.raw, "KEY", logger))
		})
	}
}

func TestOverrideDuration(t *testing.T) {
	logger := logging.NewNop()
	assert.Equal(t, 2*time.Second, overrideDuration(time.Second, "2000", "KEY", logger))
	assert.Equal(t, time.Second, overrideDuration(time.Second, "2s", "KEY", logger))
	assert.Equal(t, time.Duration(0), overrideDuration(time.Second, "0", "KEY", logger))
}
