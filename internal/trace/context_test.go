package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "4bf92f3577b34da6a3ce929d0e0e4736"},
		{name: "all zeros", input: "00000000000000000000000000000000", wantErr: true},
		{name: "too short", input: "4bf92f3577b34da6", wantErr: true},
		{name: "uppercase rejected", input: "4BF92F3577B34DA6A3CE929D0E0E4736", wantErr: true},
		{name: "non-hex", input: "4bf92f3577b34da6a3ce929d0e0e47zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := TraceIDFromHex(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, id.IsValid())
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestSpanIDFromHex(t *testing.T) {
	id, err := SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	assert.True(t, id.IsValid())
	assert.Equal(t, "00f067aa0ba902b7", id.String())

	_, err = SpanIDFromHex("0000000000000000")
	assert.Error(t, err)
}

func TestFlagsSampled(t *testing.T) {
	var f Flags
	assert.False(t, f.IsSampled())
	f = f.WithSampled(true)
	assert.True(t, f.IsSampled())
	assert.Equal(t, FlagsSampled, f)
	f = f.WithSampled(false)
	assert.False(t, f.IsSampled())
}

func TestSpanContextValidity(t *testing.T) {
	gen := NewIDGenerator()
	traceID := gen.NewTraceID()
	spanID := gen.NewSpanID()

	assert.False(t, SpanContext{}.IsValid())
	assert.False(t, NewSpanContext(SpanContextConfig{TraceID: traceID}).IsValid())
	assert.False(t, NewSpanContext(SpanContextConfig{SpanID: spanID}).IsValid())
	assert.True(t, NewSpanContext(SpanContextConfig{TraceID: traceID, SpanID: spanID}).IsValid())
}

func TestSpanContextEqualIgnoresTraceState(t *testing.T) {
	gen := NewIDGenerator()
	base := NewSpanContext(SpanContextConfig{
		TraceID: gen.NewTraceID(),
		SpanID:  gen.NewSpanID(),
		Flags:   FlagsSampled,
	})

	ts, err := ParseTraceState("vendor=value")
	require.NoError(t, err)
	assert.True(t, base.Equal(base.WithTraceState(ts)))

	other := NewSpanContext(SpanContextConfig{
		TraceID: gen.NewTraceID(),
		SpanID:  gen.NewSpanID(),
		Flags:   FlagsSampled,
	})
	assert.False(t, base.Equal(other))
}

func TestIDGeneratorUniqueness(t *testing.T) {
	gen := NewIDGenerator()
	seenTrace := make(map[TraceID]bool)
	seenSpan := make(map[SpanID]bool)
	for i := 0; i < 1000; i++ {
		traceID := gen.NewTraceID()
		spanID := gen.NewSpanID()
		require.True(t, traceID.IsValid())
		require.True(t, spanID.IsValid())
		require.False(t, seenTrace[traceID], "duplicate trace ID")
		require.False(t, seenSpan[spanID], "duplicate span ID")
		seenTrace[traceID] = true
		seenSpan[spanID] = true
	}
}
