package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lightline-io/lightline/internal/trace"
)

// TraceID renders a trace ID as a zap field.
func TraceID(id trace.TraceID) zap.Field {
	return zap.String("trace_id", id.String())
}

// SpanID renders a span ID as a zap field.
func SpanID(id trace.SpanID) zap.Field {
	return zap.String("span_id", id.String())
}

// Signal names the telemetry signal a log line concerns.
func Signal(name string) zap.Field {
	return zap.String("signal", name)
}

// Throttle rate-limits a repeated diagnostic to once per interval. Export
// failures recur on every tick while a collector is down; throttling
// keeps the diagnostic channel from flooding.
type Throttle struct {
	mu      sync.Mutex
	allow   rate.Sometimes
	dropped int
}

// NewThrottle creates a throttle firing at most once per interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{allow: rate.Sometimes{Interval: interval}}
}

// Do invokes fn if the interval has elapsed since the last invocation,
// passing the number of suppressed calls since then.
func (t *Throttle) Do(fn func(suppressed int)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fired := false
	t.allow.Do(func() {
		fired = true
		fn(t.dropped)
		t.dropped = 0
	})
	if !fired {
		t.dropped++
	}
}
