package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/trace"
)

func spanWithSampled(t *testing.T, sampled bool) *trace.Snapshot {
	t.Helper()
	gen := trace.DefaultIDGenerator()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: gen.NewTraceID(),
		SpanID:  gen.NewSpanID(),
		Flags:   trace.Flags(0).WithSampled(sampled),
	})
	return &trace.Snapshot{Context: sc, Name: "op"}
}

func TestSpanProcessorGatesUnsampled(t *testing.T) {
	exp := &recordingExporter[*trace.Snapshot]{}
	p := NewSpanProcessor(exp, config.DefaultSpanBatch(), Options{})

	sampled := spanWithSampled(t, true)
	p.OnEnd(sampled)
	p.OnEnd(spanWithSampled(t, false))
	p.OnEnd(nil)

	batch, _ := p.takeBatch()
	assert.Equal(t, []*trace.Snapshot{sampled}, batch)
}
