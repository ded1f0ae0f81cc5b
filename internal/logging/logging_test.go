package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightline-io/lightline/internal/trace"
)

func TestNewValidatesLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(Config{Level: level})
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}

	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestSignalField(t *testing.T) {
	f := Signal("traces")
	assert.Equal(t, "signal", f.Key)
	assert.Equal(t, "traces", f.String)
}

func TestTraceFields(t *testing.T) {
	gen := trace.NewIDGenerator()
	id := gen.NewTraceID()
	f := TraceID(id)
	assert.Equal(t, "trace_id", f.Key)
	assert.Equal(t, id.String(), f.String)

	sid := gen.NewSpanID()
	sf := SpanID(sid)
	assert.Equal(t, "span_id", sf.Key)
	assert.Equal(t, sid.String(), sf.String)
}

func TestThrottle(t *testing.T) {
	throttle := NewThrottle(time.Hour)

	var fired, suppressed int
	record := func(s int) {
		fired++
		suppressed = s
	}

	throttle.Do(record)
	throttle.Do(record)
	throttle.Do(record)

	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, suppressed)
}

func TestThrottleReportsSuppressedCount(t *testing.T) {
	throttle := NewThrottle(10 * time.Millisecond)

	var counts []int
	record := func(s int) { counts = append(counts, s) }

	throttle.Do(record) // fires, 0 suppressed
	throttle.Do(record) // suppressed
	throttle.Do(record) // suppressed
	time.Sleep(20 * time.Millisecond)
	throttle.Do(record) // fires again with the suppressed count

	require.Equal(t, []int{0, 2}, counts)
}
