package explain

import (
	"context"

	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/store"
)

// Source is the read side of the store the engine needs.
type Source interface {
	Statements(ctx context.Context, pattern ir.Quad, opts store.LookupOptions) (store.Cursor, error)
}

// Probe reports whether (s, p, o) is asserted in any context. Deleted,
// hidden and inferred occurrences do not count. The first remaining
// occurrence decides ExplicitContext and IsDerivedFromEquivalence.
func Probe(ctx context.Context, src Source, s, p, o ir.ID) (ir.ExplicitProps, error) {
	props := ir.ExplicitProps{ExplicitContext: ir.ExplicitGraph}

	cur, err := src.Statements(ctx, ir.NewQuad(s, p, o, ir.NoContext), store.LookupOptions{
		AllContexts: true,
		ExcludeMask: ir.ExplicitProbeMask,
	})
	if err != nil {
		return props, newStoreError("explicit probe", err)
	}
	defer cur.Close()

	if cur.Next() {
		first := cur.Statement()
		props.IsExplicit = true
		props.ExplicitContext = first.Quad.Context
		props.IsDerivedFromEquivalence = first.Status.Has(ir.StatusSkipOnReinfer)
	}
	if err := cur.Err(); err != nil {
		return ir.ExplicitProps{ExplicitContext: ir.ExplicitGraph}, newStoreError("explicit probe", err)
	}
	return props, nil
}
