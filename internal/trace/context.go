package trace

import (
	"encoding/hex"
	"errors"
)

var (
	// ErrInvalidTraceID is returned when a trace ID is all zeros or not
	// 32 lowercase hex characters.
	ErrInvalidTraceID = errors.New("trace: invalid trace ID")
	// ErrInvalidSpanID is returned when a span ID is all zeros or not
	// 16 lowercase hex characters.
	ErrInvalidSpanID = errors.New("trace: invalid span ID")
)

// TraceID is a 16-byte identifier shared by every span in a trace.
type TraceID [16]byte

// SpanID is an 8-byte identifier unique within a trace.
type SpanID [8]byte

// IsValid reports whether the trace ID is non-zero.
func (t TraceID) IsValid() bool {
	return t != TraceID{}
}

// String returns the trace ID as 32 lowercase hex characters.
func (t TraceID) String() string {
	return hex.EncodeToString(t[:])
}

// IsValid reports whether the span ID is non-zero.
func (s SpanID) IsValid() bool {
	return s != SpanID{}
}

// String returns the span ID as 16 lowercase hex characters.
func (s SpanID) String() string {
	return hex.EncodeToString(s[:])
}

// TraceIDFromHex parses a 32-character lowercase hex trace ID.
func TraceIDFromHex(h string) (TraceID, error) {
	var t TraceID
	if len(h) != 32 || !isLowerHex(h) {
		return t, ErrInvalidTraceID
	}
	if _, err := hex.Decode(t[:], []byte(h)); err != nil {
		return TraceID{}, ErrInvalidTraceID
	}
	if !t.IsValid() {
		return TraceID{}, ErrInvalidTraceID
	}
	return t, nil
}

// SpanIDFromHex parses a 16-character lowercase hex span ID.
func SpanIDFromHex(h string) (SpanID, error) {
	var s SpanID
	if len(h) != 16 || !isLowerHex(h) {
		return s, ErrInvalidSpanID
	}
	if _, err := hex.Decode(s[:], []byte(h)); err != nil {
		return SpanID{}, ErrInvalidSpanID
	}
	if !s.IsValid() {
		return SpanID{}, ErrInvalidSpanID
	}
	return s, nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// Flags is the 8-bit trace-flags field. Bit 0 is the sampled flag.
type Flags byte

// FlagsSampled is the bit set on the flags of every sampled trace. It is
// the sole gate for whether a finished span reaches the export path.
const FlagsSampled = Flags(0x01)

// IsSampled reports whether the sampled bit is set.
func (f Flags) IsSampled() bool {
	return f&FlagsSampled == FlagsSampled
}

// WithSampled returns flags with the sampled bit set or cleared.
func (f Flags) WithSampled(sampled bool) Flags {
	if sampled {
		return f | FlagsSampled
	}
	return f &^ FlagsSampled
}

// SpanContext is the immutable identity of a span. It is fully determined
// at span start; TraceState may be replaced wholesale but the identifiers
// and the Remote marker are fixed for the context's lifetime.
type SpanContext struct {
	traceID    TraceID
	spanID     SpanID
	parentID   SpanID
	flags      Flags
	traceState TraceState
	remote     bool
}

// SpanContextConfig carries the fields used to construct a SpanContext.
type SpanContextConfig struct {
	TraceID    TraceID
	SpanID     SpanID
	ParentID   SpanID
	Flags      Flags
	TraceState TraceState
	Remote     bool
}

// NewSpanContext constructs a SpanContext from the given configuration.
func NewSpanContext(cfg SpanContextConfig) SpanContext {
	return SpanContext{
		traceID:    cfg.TraceID,
		spanID:     cfg.SpanID,
		parentID:   cfg.ParentID,
		flags:      cfg.Flags,
		traceState: cfg.TraceState,
		remote:     cfg.Remote,
	}
}

// TraceID returns the trace identifier.
func (sc SpanContext) TraceID() TraceID { return sc.traceID }

// SpanID returns the span identifier.
func (sc SpanContext) SpanID() SpanID { return sc.spanID }

// ParentID returns the parent span identifier. It is the zero SpanID for
// root spans and for contexts reconstructed from an inbound header.
func (sc SpanContext) ParentID() SpanID { return sc.parentID }

// Flags returns the trace flags.
func (sc SpanContext) Flags() Flags { return sc.flags }

// TraceState returns the vendor-specific trace state.
func (sc SpanContext) TraceState() TraceState { return sc.traceState }

// IsRemote reports whether the context was reconstructed from an inbound
// propagation header rather than created locally.
func (sc SpanContext) IsRemote() bool { return sc.remote }

// IsSampled reports whether the sampled flag is set.
func (sc SpanContext) IsSampled() bool { return sc.flags.IsSampled() }

// IsValid reports whether both trace ID and span ID are non-zero.
func (sc SpanContext) IsValid() bool {
	return sc.traceID.IsValid() && sc.spanID.IsValid()
}

// WithTraceState returns a copy of the context with the trace state
// replaced. All other fields are unchanged.
func (sc SpanContext) WithTraceState(ts TraceState) SpanContext {
	sc.traceState = ts
	return sc
}

// Equal reports whether two contexts carry the same identity. Trace state
// is excluded from the comparison.
func (sc SpanContext) Equal(other SpanContext) bool {
	return sc.traceID == other.traceID &&
		sc.spanID == other.spanID &&
		sc.parentID == other.parentID &&
		sc.flags == other.flags &&
		sc.remote == other.remote
}
