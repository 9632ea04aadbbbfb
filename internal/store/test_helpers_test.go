package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/proof/internal/ir"
)

// createTestStore creates a new SQLite store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// quadStore is the method set shared by Store and Memory.
type quadStore interface {
	Intern(ctx context.Context, value string) (ir.ID, error)
	TermID(ctx context.Context, value string) (ir.ID, bool, error)
	Resolve(ctx context.Context, id ir.ID) (string, error)
	Put(ctx context.Context, st ir.Statement) error
	Delete(ctx context.Context, q ir.Quad) (int64, error)
	Statements(ctx context.Context, pattern ir.Quad, opts LookupOptions) (Cursor, error)
	Count(ctx context.Context) (int, error)
}

var (
	_ quadStore = (*Store)(nil)
	_ quadStore = (*Memory)(nil)
)

// forEachStore runs fn against both implementations.
func forEachStore(t *testing.T, fn func(t *testing.T, s quadStore)) {
	t.Helper()
	t.Run("sqlite", func(t *testing.T) { fn(t, createTestStore(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
}

// collect drains a lookup, failing the test on error.
func collect(t *testing.T, s quadStore, pattern ir.Quad, opts LookupOptions) []ir.Statement {
	t.Helper()
	cur, err := s.Statements(context.Background(), pattern, opts)
	if err != nil {
		t.Fatalf("Statements() failed: %v", err)
	}
	out, err := Drain(cur)
	if err != nil {
		t.Fatalf("Drain() failed: %v", err)
	}
	return out
}
