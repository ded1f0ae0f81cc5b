package trace

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceIDWithRandomPart(x uint64) TraceID {
	var id TraceID
	id[0] = 0x01
	binary.BigEndian.PutUint64(id[8:16], x)
	return id
}

func TestAlwaysOnAlwaysOff(t *testing.T) {
	p := SamplingParameters{TraceID: traceIDWithRandomPart(42)}
	assert.Equal(t, RecordAndSample, AlwaysOn().ShouldSample(p).Decision)
	assert.Equal(t, Drop, AlwaysOff().ShouldSample(p).Decision)
}

func TestTraceIDRatioBounds(t *testing.T) {
	p := SamplingParameters{TraceID: traceIDWithRandomPart(1 << 40)}
	assert.Equal(t, RecordAndSample, TraceIDRatio(1).ShouldSample(p).Decision)
	assert.Equal(t, Drop, TraceIDRatio(0).ShouldSample(p).Decision)
	// Out-of-range ratios clamp.
	assert.Equal(t, RecordAndSample, TraceIDRatio(2).ShouldSample(p).Decision)
	assert.Equal(t, Drop, TraceIDRatio(-1).ShouldSample(p).Decision)
}

func TestTraceIDRatioDeterministic(t *testing.T) {
	sampler := TraceIDRatio(0.5)
	gen := NewIDGenerator()
	for i := 0; i < 100; i++ {
		p := SamplingParameters{TraceID: gen.NewTraceID()}
		first := sampler.ShouldSample(p).Decision
		for j := 0; j < 5; j++ {
			assert.Equal(t, first, sampler.ShouldSample(p).Decision)
		}
	}
}

func TestTraceIDRatioDistribution(t *testing.T) {
	sampler := TraceIDRatio(0.25)
	gen := NewIDGenerator()
	sampled := 0
	const n = 10000
	for i := 0; i < n; i++ {
		p := SamplingParameters{TraceID: gen.NewTraceID()}
		if sampler.ShouldSample(p).Decision == RecordAndSample {
			sampled++
		}
	}
	// Loose bounds; the random part is uniform so 25% ± 5 points.
	assert.Greater(t, sampled, n/5)
	assert.Less(t, sampled, 3*n/10)
}

func TestParentBasedMirrorsParent(t *testing.T) {
	gen := NewIDGenerator()
	sampler := ParentBased(AlwaysOff())

	sampledParent := NewSpanContext(SpanContextConfig{
		TraceID: gen.NewTraceID(),
		SpanID:  gen.NewSpanID(),
		Flags:   FlagsSampled,
	})
	unsampledParent := NewSpanContext(SpanContextConfig{
		TraceID: gen.NewTraceID(),
		SpanID:  gen.NewSpanID(),
	})

	got := sampler.ShouldSample(SamplingParameters{Parent: sampledParent})
	assert.Equal(t, RecordAndSample, got.Decision)

	got = sampler.ShouldSample(SamplingParameters{Parent: unsampledParent})
	assert.Equal(t, Drop, got.Decision)

	// No parent: fall through to the root sampler.
	got = sampler.ShouldSample(SamplingParameters{TraceID: gen.NewTraceID()})
	assert.Equal(t, Drop, got.Decision)
}

func TestParentBasedNilRoot(t *testing.T) {
	sampler := ParentBased(nil)
	got := sampler.ShouldSample(SamplingParameters{TraceID: traceIDWithRandomPart(7)})
	assert.Equal(t, RecordAndSample, got.Decision)
	assert.Equal(t, "ParentBased{root=AlwaysOn}", sampler.Description())
}

func TestParentBasedPropagatesTraceState(t *testing.T) {
	gen := NewIDGenerator()
	ts, err := ParseTraceState("vendor=value")
	require.NoError(t, err)
	parent := NewSpanContext(SpanContextConfig{
		TraceID:    gen.NewTraceID(),
		SpanID:     gen.NewSpanID(),
		Flags:      FlagsSampled,
		TraceState: ts,
	})

	got := ParentBased(AlwaysOn()).ShouldSample(SamplingParameters{Parent: parent})
	assert.Equal(t, "value", got.TraceState.Get("vendor"))
}
