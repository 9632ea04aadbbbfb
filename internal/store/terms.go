package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// ErrUnknownTerm is returned when an ID has no interned value.
var ErrUnknownTerm = errors.New("unknown term")

// reservedByValue maps well-known graph names onto their reserved IDs so a
// quad loaded into the explicit graph by name lands in ir.ExplicitGraph.
var reservedByValue = map[string]ir.ID{
	ir.ExplicitGraphIRI: ir.ExplicitGraph,
	ir.ImplicitGraphIRI: ir.ImplicitGraph,
}

// reservedValue renders a reserved ID.
func reservedValue(id ir.ID) (string, bool) {
	switch id {
	case ir.ExplicitGraph:
		return ir.ExplicitGraphIRI, true
	case ir.ImplicitGraph:
		return ir.ImplicitGraphIRI, true
	}
	return "", false
}

// Intern returns the ID for value, allocating one on first use.
// Idempotent: the same value always yields the same ID.
func (s *Store) Intern(ctx context.Context, value string) (ir.ID, error) {
	if id, ok := reservedByValue[value]; ok {
		return id, nil
	}
	if value == "" {
		return 0, errors.New("intern: empty term")
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO terms (value) VALUES (?) ON CONFLICT(value) DO NOTHING`, value); err != nil {
		return 0, errors.Wrapf(err, "intern %q", value)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM terms WHERE value = ?`, value).Scan(&id); err != nil {
		return 0, errors.Wrapf(err, "intern %q", value)
	}
	return ir.ID(id), nil
}

// TermID looks up value without interning it.
// The boolean is false when the value has never been interned.
func (s *Store) TermID(ctx context.Context, value string) (ir.ID, bool, error) {
	if id, ok := reservedByValue[value]; ok {
		return id, true, nil
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM terms WHERE value = ?`, value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "lookup term %q", value)
	}
	return ir.ID(id), true, nil
}

// Resolve returns the value interned under id.
func (s *Store) Resolve(ctx context.Context, id ir.ID) (string, error) {
	if v, ok := reservedValue(id); ok {
		return v, nil
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM terms WHERE id = ?`, int64(id)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Wrapf(ErrUnknownTerm, "resolve %d", id)
	}
	if err != nil {
		return "", errors.Wrapf(err, "resolve %d", id)
	}
	return value, nil
}
