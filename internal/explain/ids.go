package explain

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/roach88/proof/internal/ir"
)

// IDAllocator hands out request-scoped identifiers.
type IDAllocator interface {
	Allocate() ir.ID
}

// RequestIDs allocates request identifiers from a monotonic counter that
// counts down from ir.RequestIDBase, clear of every term and graph ID.
//
// Safe for concurrent use.
type RequestIDs struct {
	seq atomic.Int64
}

// NewRequestIDs creates an allocator whose first ID is ir.RequestIDBase.
func NewRequestIDs() *RequestIDs {
	return &RequestIDs{}
}

// Allocate returns the next identifier. Each call returns a distinct value.
func (r *RequestIDs) Allocate() ir.ID {
	n := r.seq.Add(1)
	return ir.RequestIDBase - ir.ID(n-1)
}

// Issued returns how many identifiers have been handed out.
func (r *RequestIDs) Issued() int64 {
	return r.seq.Load()
}

// TokenGenerator produces correlation tokens that tie a request's log lines
// together.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 tokens.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for tests.
//
// Safe for concurrent use.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
//
// Panics once all tokens are consumed: the test asked for more requests
// than it planned.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
