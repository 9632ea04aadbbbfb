package infer

import (
	"context"

	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/store"
)

// Backend is the inference side of an explanation: it knows which rules can
// conclude a triple and reports the antecedents each rule fired on.
type Backend interface {
	// InferenceEnabled reports whether the backend performs inference at all.
	InferenceEnabled() bool

	// IsSupported searches for derivations of (subject, predicate, object)
	// and calls r.Report once per matching rule. The search stops early when
	// Report returns false. A non-nil error aborts the search.
	IsSupported(ctx context.Context, subject, predicate, object ir.ID, r Reporter) error
}

// Reporter receives the derivations a Backend finds.
type Reporter interface {
	// Report delivers every solution for one rule. Returning false stops
	// the search; an error aborts it.
	Report(ctx context.Context, rule string, solutions Solutions) (bool, error)
}

// Solutions iterates over the antecedent groups of one rule. Each group is
// one way the rule's premises were satisfied.
type Solutions interface {
	// Next advances to the next group.
	Next() bool

	// Antecedents returns a fresh cursor over the current group. The caller
	// must close it.
	Antecedents() store.Cursor

	// Err reports a failure that ended iteration early.
	Err() error
}

// Source is the store surface the reference backend reads and writes.
type Source interface {
	Statements(ctx context.Context, pattern ir.Quad, opts store.LookupOptions) (store.Cursor, error)
	Put(ctx context.Context, st ir.Statement) error
}

// Interner turns rule constants into term IDs.
type Interner interface {
	Intern(ctx context.Context, value string) (ir.ID, error)
}

// groupSolutions serves precomputed antecedent groups.
type groupSolutions struct {
	groups [][]ir.Statement
	pos    int
}

// NewSolutions returns Solutions over fixed groups. Backends that compute
// everything up front, and tests, use it.
func NewSolutions(groups ...[]ir.Statement) Solutions {
	return &groupSolutions{groups: groups, pos: -1}
}

func (s *groupSolutions) Next() bool {
	if s.pos+1 >= len(s.groups) {
		s.pos = len(s.groups)
		return false
	}
	s.pos++
	return true
}

func (s *groupSolutions) Antecedents() store.Cursor {
	if s.pos < 0 || s.pos >= len(s.groups) {
		return store.NewSliceCursor(nil)
	}
	return store.NewSliceCursor(s.groups[s.pos])
}

func (s *groupSolutions) Err() error { return nil }
