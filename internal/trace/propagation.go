package trace

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// W3C Trace Context header names.
const (
	TraceparentHeader = "traceparent"
	TracestateHeader  = "tracestate"
)

// supportedVersion is the highest traceparent version this package emits.
// Higher inbound versions are accepted and parsed with version-00 rules.
const supportedVersion = 0

// ErrInvalidTraceparent is returned when a traceparent header does not
// conform to the W3C format version-traceid-spanid-flags.
var ErrInvalidTraceparent = errors.New("trace: invalid traceparent")

// ParseTraceparent reconstructs a remote SpanContext from a traceparent
// header value. The returned context has IsRemote() == true and no parent
// span ID: the remote side's span becomes this process's parent, not the
// parent of the reconstructed context itself.
func ParseTraceparent(header string) (SpanContext, error) {
	parts := strings.Split(strings.TrimSpace(header), "-")
	if len(parts) < 4 {
		return SpanContext{}, ErrInvalidTraceparent
	}

	if len(parts[0]) != 2 || !isLowerHex(parts[0]) || parts[0] == "ff" {
		return SpanContext{}, ErrInvalidTraceparent
	}
	// Version 00 must have exactly four fields; future versions may append
	// fields we ignore.
	if parts[0] == "00" && len(parts) != 4 {
		return SpanContext{}, ErrInvalidTraceparent
	}

	traceID, err := TraceIDFromHex(parts[1])
	if err != nil {
		return SpanContext{}, fmt.Errorf("%w: %v", ErrInvalidTraceparent, err)
	}
	spanID, err := SpanIDFromHex(parts[2])
	if err != nil {
		return SpanContext{}, fmt.Errorf("%w: %v", ErrInvalidTraceparent, err)
	}
	if len(parts[3]) != 2 || !isLowerHex(parts[3]) {
		return SpanContext{}, ErrInvalidTraceparent
	}
	var flags byte
	if _, err := fmt.Sscanf(parts[3], "%02x", &flags); err != nil {
		return SpanContext{}, ErrInvalidTraceparent
	}

	return NewSpanContext(SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
		// Only the sampled bit is defined; reserved bits are dropped.
		Flags:  Flags(flags) & FlagsSampled,
		Remote: true,
	}), nil
}

// FormatTraceparent renders the context as a version-00 traceparent
// header value.
func FormatTraceparent(sc SpanContext) string {
	return fmt.Sprintf("%02x-%s-%s-%02x",
		supportedVersion, sc.TraceID(), sc.SpanID(), byte(sc.Flags()))
}

// Inject writes the traceparent and tracestate headers for sc into h.
// Invalid contexts are not injected.
func Inject(sc SpanContext, h http.Header) {
	if !sc.IsValid() {
		return
	}
	h.Set(TraceparentHeader, FormatTraceparent(sc))
	if ts := sc.TraceState().String(); ts != "" {
		h.Set(TracestateHeader, ts)
	}
}

// Extract reconstructs a remote SpanContext from the traceparent and
// tracestate headers in h. A malformed tracestate is discarded without
// invalidating the traceparent, per the W3C spec.
func Extract(h http.Header) (SpanContext, error) {
	sc, err := ParseTraceparent(h.Get(TraceparentHeader))
	if err != nil {
		return SpanContext{}, err
	}
	if ts, err := ParseTraceState(h.Get(TracestateHeader)); err == nil {
		sc = sc.WithTraceState(ts)
	}
	return sc, nil
}
