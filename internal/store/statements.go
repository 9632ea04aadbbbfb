package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// Put writes one occurrence. Writing a quad that already exists merges the
// status bits; a write without StatusDeleted revives a soft-deleted row.
func (s *Store) Put(ctx context.Context, st ir.Statement) error {
	if !st.Quad.Valid() || st.Quad.Context == ir.NoContext {
		return errors.Newf("put: invalid quad %s", st.Quad)
	}

	var revive ir.Status
	if !st.Status.Has(ir.StatusDeleted) {
		revive = ir.StatusDeleted
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statements (subject, predicate, object, context, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(subject, predicate, object, context)
		DO UPDATE SET status = (statements.status & ~?) | excluded.status
	`,
		int64(st.Quad.Subject),
		int64(st.Quad.Predicate),
		int64(st.Quad.Object),
		int64(st.Quad.Context),
		int64(st.Status),
		int64(revive),
	)
	if err != nil {
		return errors.Wrapf(err, "put %s", st.Quad)
	}
	return nil
}

// Delete soft-deletes a quad by setting StatusDeleted. A NoContext quad
// deletes the triple from every graph. Returns the number of rows touched.
func (s *Store) Delete(ctx context.Context, q ir.Quad) (int64, error) {
	query := `UPDATE statements SET status = status | ? WHERE subject = ? AND predicate = ? AND object = ?`
	args := []any{int64(ir.StatusDeleted), int64(q.Subject), int64(q.Predicate), int64(q.Object)}
	if q.Context != ir.NoContext {
		query += ` AND context = ?`
		args = append(args, int64(q.Context))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "delete %s", q)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "delete %s", q)
	}
	return n, nil
}

// Statements returns a cursor over every occurrence matching pattern.
// Results are ordered by insertion. The caller must close the cursor.
func (s *Store) Statements(ctx context.Context, pattern ir.Quad, opts LookupOptions) (Cursor, error) {
	query, params := compileLookup(pattern, opts)
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, errors.Wrap(err, "query statements")
	}
	return newRowsCursor(rows), nil
}

// scanStatement reads one statements row.
func scanStatement(rows *sql.Rows) (ir.Statement, error) {
	var subject, predicate, object, graph, status int64
	if err := rows.Scan(&subject, &predicate, &object, &graph, &status); err != nil {
		return ir.Statement{}, errors.Wrap(err, "scan statement")
	}
	return ir.NewStatement(ir.ID(subject), ir.ID(predicate), ir.ID(object), ir.ID(graph), ir.Status(status)), nil
}
