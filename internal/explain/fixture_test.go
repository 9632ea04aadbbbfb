package explain

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/store"
)

const (
	rdfType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	subClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	inverseOf  = "http://www.w3.org/2002/07/owl#inverseOf"
)

type fixture struct {
	mem *store.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{mem: store.NewMemory()}
}

func (f *fixture) id(t *testing.T, value string) ir.ID {
	t.Helper()
	id, err := f.mem.Intern(context.Background(), value)
	require.NoError(t, err)
	return id
}

// quad interns the three terms without storing anything.
func (f *fixture) quad(t *testing.T, s, p, o string, graph ir.ID) ir.Quad {
	t.Helper()
	return ir.NewQuad(f.id(t, s), f.id(t, p), f.id(t, o), graph)
}

// put stores an occurrence with the given status.
func (f *fixture) put(t *testing.T, s, p, o string, graph ir.ID, status ir.Status) ir.Quad {
	t.Helper()
	q := f.quad(t, s, p, o, graph)
	require.NoError(t, f.mem.Put(context.Background(), ir.Statement{Quad: q, Status: status}))
	return q
}

func (f *fixture) assert(t *testing.T, s, p, o string, graph ir.ID) ir.Quad {
	t.Helper()
	return f.put(t, s, p, o, graph, ir.StatusExplicit)
}

func (f *fixture) inferred(t *testing.T, s, p, o string) ir.Quad {
	t.Helper()
	return f.put(t, s, p, o, ir.ImplicitGraph, ir.StatusInferred)
}

func explicit(q ir.Quad) ir.Statement {
	return ir.Statement{Quad: q, Status: ir.StatusExplicit}
}

type scriptedReport struct {
	rule   string
	groups [][]ir.Statement
}

// scripted is a backend that replays fixed reports.
type scripted struct {
	disabled bool
	reports  []scriptedReport
	err      error
	calls    atomic.Int32

	// during runs inside IsSupported before any report is delivered.
	during func(ctx context.Context) error
}

func (b *scripted) InferenceEnabled() bool { return !b.disabled }

func (b *scripted) IsSupported(ctx context.Context, _, _, _ ir.ID, r infer.Reporter) error {
	b.calls.Add(1)
	if b.during != nil {
		if err := b.during(ctx); err != nil {
			return err
		}
	}
	if b.err != nil {
		return b.err
	}
	for _, rep := range b.reports {
		more, err := r.Report(ctx, rep.rule, infer.NewSolutions(rep.groups...))
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// failingSource fails every lookup.
type failingSource struct{}

var errLookup = errors.New("disk on fire")

func (failingSource) Statements(context.Context, ir.Quad, store.LookupOptions) (store.Cursor, error) {
	return nil, errLookup
}

// brokenSolutions yields one empty group and then reports an error.
type brokenSolutions struct {
	done bool
}

func (s *brokenSolutions) Next() bool {
	if s.done {
		return false
	}
	s.done = true
	return true
}

func (s *brokenSolutions) Antecedents() store.Cursor { return store.NewSliceCursor(nil) }

func (s *brokenSolutions) Err() error { return errors.New("solution stream broke") }

// flatten renders a request's cursor as rule plus premise rows.
func flatten(c *Cursor) []row {
	var rows []row
	for c.Next() {
		r := row{Rule: c.Rule()}
		if q, ok := c.Premise(); ok {
			r.Premise = q
			r.HasPremise = true
		}
		rows = append(rows, r)
	}
	return rows
}

type row struct {
	Rule       string
	Premise    ir.Quad
	HasPremise bool
}
