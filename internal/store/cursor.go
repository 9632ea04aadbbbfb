package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// Cursor iterates over stored occurrences.
//
// Usage mirrors sql.Rows:
//
//	cur, err := st.Statements(ctx, pattern, opts)
//	if err != nil { ... }
//	defer cur.Close()
//	for cur.Next() {
//		st := cur.Statement()
//	}
//	if err := cur.Err(); err != nil { ... }
//
// Close is idempotent and must be called on every path.
type Cursor interface {
	Next() bool
	Statement() ir.Statement
	Err() error
	Close() error
}

// LookupOptions narrows a pattern lookup.
type LookupOptions struct {
	// AllContexts ignores the pattern's context and matches every graph.
	AllContexts bool

	// ExcludeMask skips occurrences whose status intersects the mask.
	ExcludeMask ir.Status
}

// SliceCursor serves occurrences from memory.
type SliceCursor struct {
	items  []ir.Statement
	pos    int
	closed bool
}

// NewSliceCursor returns a cursor over items. The slice is not copied.
func NewSliceCursor(items []ir.Statement) *SliceCursor {
	return &SliceCursor{items: items, pos: -1}
}

func (c *SliceCursor) Next() bool {
	if c.closed || c.pos+1 >= len(c.items) {
		c.pos = len(c.items)
		return false
	}
	c.pos++
	return true
}

func (c *SliceCursor) Statement() ir.Statement {
	if c.closed || c.pos < 0 || c.pos >= len(c.items) {
		return ir.Statement{}
	}
	return c.items[c.pos]
}

func (c *SliceCursor) Err() error { return nil }

func (c *SliceCursor) Close() error {
	c.closed = true
	c.items = nil
	return nil
}

// rowsCursor adapts sql.Rows over the statements table.
type rowsCursor struct {
	rows    *sql.Rows
	current ir.Statement
	err     error
	closed  bool
}

func newRowsCursor(rows *sql.Rows) *rowsCursor {
	return &rowsCursor{rows: rows}
}

func (c *rowsCursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = errors.Wrap(err, "iterate statements")
		}
		return false
	}
	st, err := scanStatement(c.rows)
	if err != nil {
		c.err = err
		return false
	}
	c.current = st
	return true
}

func (c *rowsCursor) Statement() ir.Statement {
	return c.current
}

func (c *rowsCursor) Err() error {
	return c.err
}

func (c *rowsCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.current = ir.Statement{}
	return c.rows.Close()
}

// Drain reads every remaining occurrence from cur and closes it.
// Returns an empty slice (not nil) when the cursor yields nothing.
func Drain(cur Cursor) ([]ir.Statement, error) {
	defer cur.Close()

	out := []ir.Statement{}
	for cur.Next() {
		out = append(out, cur.Statement())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
