package store

import (
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// Memory is an in-process quad store with the same method set as Store.
// Scenario runs and unit tests use it. Safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	termIDs    map[string]ir.ID
	termValues []string // index = ID-1
	statements []ir.Statement
	index      map[ir.Quad]int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		termIDs: make(map[string]ir.ID),
		index:   make(map[ir.Quad]int),
	}
}

// Intern returns the ID for value, allocating one on first use.
func (m *Memory) Intern(_ context.Context, value string) (ir.ID, error) {
	if id, ok := reservedByValue[value]; ok {
		return id, nil
	}
	if value == "" {
		return 0, errors.New("intern: empty term")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.termIDs[value]; ok {
		return id, nil
	}
	m.termValues = append(m.termValues, value)
	id := ir.ID(len(m.termValues))
	m.termIDs[value] = id
	return id, nil
}

// TermID looks up value without interning it.
func (m *Memory) TermID(_ context.Context, value string) (ir.ID, bool, error) {
	if id, ok := reservedByValue[value]; ok {
		return id, true, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.termIDs[value]
	return id, ok, nil
}

// Resolve returns the value interned under id.
func (m *Memory) Resolve(_ context.Context, id ir.ID) (string, error) {
	if v, ok := reservedValue(id); ok {
		return v, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if id <= 0 || int(id) > len(m.termValues) {
		return "", errors.Wrapf(ErrUnknownTerm, "resolve %d", id)
	}
	return m.termValues[id-1], nil
}

// Put writes one occurrence, merging status bits like Store.Put.
func (m *Memory) Put(_ context.Context, st ir.Statement) error {
	if !st.Quad.Valid() || st.Quad.Context == ir.NoContext {
		return errors.Newf("put: invalid quad %s", st.Quad)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[st.Quad]
	if !ok {
		m.index[st.Quad] = len(m.statements)
		m.statements = append(m.statements, st)
		return nil
	}

	status := m.statements[i].Status
	if !st.Status.Has(ir.StatusDeleted) {
		status &^= ir.StatusDeleted
	}
	m.statements[i].Status = status | st.Status
	return nil
}

// Delete soft-deletes a quad. A NoContext quad deletes the triple from
// every graph.
func (m *Memory) Delete(_ context.Context, q ir.Quad) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.statements {
		st := &m.statements[i]
		if !st.Quad.SameTriple(q) {
			continue
		}
		if q.Context != ir.NoContext && st.Quad.Context != q.Context {
			continue
		}
		st.Status |= ir.StatusDeleted
		n++
	}
	return n, nil
}

// Statements returns a cursor over a snapshot of the matching occurrences.
func (m *Memory) Statements(ctx context.Context, pattern ir.Quad, opts LookupOptions) (Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "query statements")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ir.Statement
	for _, st := range m.statements {
		if matches(st, pattern, opts) {
			out = append(out, st)
		}
	}
	return NewSliceCursor(slices.Clip(out)), nil
}

// Count returns the number of stored occurrences, deleted ones included.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.statements), nil
}

func matches(st ir.Statement, pattern ir.Quad, opts LookupOptions) bool {
	if st.Status.Intersects(opts.ExcludeMask) {
		return false
	}
	q := st.Quad
	if pattern.Subject != ir.NoContext && q.Subject != pattern.Subject {
		return false
	}
	if pattern.Predicate != ir.NoContext && q.Predicate != pattern.Predicate {
		return false
	}
	if pattern.Object != ir.NoContext && q.Object != pattern.Object {
		return false
	}
	if !opts.AllContexts && pattern.Context != ir.NoContext && q.Context != pattern.Context {
		return false
	}
	return true
}
