package trace

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator produces trace and span identifiers.
//
// Trace IDs are ULIDs: the 48-bit timestamp prefix makes traces
// lexicographically time-sortable in downstream storage while the 80-bit
// entropy suffix keeps the low 8 bytes uniformly random, which the
// ratio-based sampler depends on.
type IDGenerator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // protects entropy reader
}

var (
	defaultGenerator *IDGenerator
	once             sync.Once
)

// DefaultIDGenerator returns the singleton generator backed by
// cryptographically secure entropy.
func DefaultIDGenerator() *IDGenerator {
	once.Do(func() {
		defaultGenerator = NewIDGenerator()
	})
	return defaultGenerator
}

// NewIDGenerator creates a generator backed by crypto/rand.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: rand.Reader}
}

// NewIDGeneratorWithEntropy creates a generator with a custom entropy
// source. Useful for deterministic tests.
func NewIDGeneratorWithEntropy(entropy io.Reader) *IDGenerator {
	return &IDGenerator{entropy: entropy}
}

// NewTraceID generates a new 16-byte trace identifier.
func (g *IDGenerator) NewTraceID() TraceID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return TraceID(ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy))
}

// NewSpanID generates a new 8-byte span identifier.
func (g *IDGenerator) NewSpanID() SpanID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	var s SpanID
	for !s.IsValid() {
		if _, err := io.ReadFull(g.entropy, s[:]); err != nil {
			panic(err)
		}
	}
	return s
}
