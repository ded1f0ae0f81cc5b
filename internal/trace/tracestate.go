package trace

import (
	"errors"
	"strings"
)

// ErrInvalidTraceState is returned when a tracestate header does not
// conform to the W3C list-member grammar.
var ErrInvalidTraceState = errors.New("trace: invalid tracestate")

const (
	maxTraceStateMembers  = 32
	maxTraceStateKeyLen   = 256
	maxTraceStateValueLen = 256
)

type traceStateMember struct {
	key   string
	value string
}

// TraceState carries vendor-specific key/value pairs alongside a span
// context. It is opaque to the pipeline and round-tripped on the wire.
// The zero value is an empty, valid trace state.
type TraceState struct {
	members []traceStateMember
}

// ParseTraceState parses a W3C tracestate header value. Empty members
// (consecutive commas, leading/trailing whitespace) are tolerated per the
// spec; malformed members reject the whole header.
func ParseTraceState(header string) (TraceState, error) {
	var ts TraceState
	if header == "" {
		return ts, nil
	}
	for _, member := range strings.Split(header, ",") {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		key, value, found := strings.Cut(member, "=")
		if !found || !validTraceStateKey(key) || !validTraceStateValue(value) {
			return TraceState{}, ErrInvalidTraceState
		}
		for _, m := range ts.members {
			if m.key == key {
				return TraceState{}, ErrInvalidTraceState
			}
		}
		ts.members = append(ts.members, traceStateMember{key: key, value: value})
	}
	if len(ts.members) > maxTraceStateMembers {
		return TraceState{}, ErrInvalidTraceState
	}
	return ts, nil
}

// Len returns the number of list members.
func (ts TraceState) Len() int { return len(ts.members) }

// Get returns the value for key, or "" when absent.
func (ts TraceState) Get(key string) string {
	for _, m := range ts.members {
		if m.key == key {
			return m.value
		}
	}
	return ""
}

// String renders the trace state in W3C header form. An empty state
// renders as "".
func (ts TraceState) String() string {
	if len(ts.members) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range ts.members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.key)
		b.WriteByte('=')
		b.WriteString(m.value)
	}
	return b.String()
}

// validTraceStateKey checks the W3C key grammar: lowercase alphanumeric
// start, then alphanumerics plus "_-*/", with an optional tenant@vendor
// form carrying exactly one '@'.
func validTraceStateKey(key string) bool {
	if key == "" || len(key) > maxTraceStateKeyLen {
		return false
	}
	seenAt := false
	for i, c := range key {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		case c == '_' || c == '-' || c == '*' || c == '/':
			if i == 0 {
				return false
			}
		case c == '@':
			if i == 0 || seenAt {
				return false
			}
			seenAt = true
		default:
			return false
		}
	}
	return !strings.HasSuffix(key, "@")
}

// validTraceStateValue checks the W3C value grammar: printable ASCII
// excluding ',' and '=', no trailing space.
func validTraceStateValue(value string) bool {
	if value == "" || len(value) > maxTraceStateValueLen {
		return false
	}
	for _, c := range value {
		if c < 0x20 || c > 0x7e || c == ',' || c == '=' {
			return false
		}
	}
	return !strings.HasSuffix(value, " ")
}
