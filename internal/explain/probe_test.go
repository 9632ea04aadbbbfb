package explain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proof/internal/ir"
)

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("asserted in named graph", func(t *testing.T) {
		f := newFixture(t)
		g1 := f.id(t, "http://www.example.com/G1")
		q := f.assert(t, "Lassie", rdfType, "Dog", g1)

		props, err := Probe(ctx, f.mem, q.Subject, q.Predicate, q.Object)
		require.NoError(t, err)
		assert.True(t, props.IsExplicit)
		assert.Equal(t, g1, props.ExplicitContext)
		assert.False(t, props.IsDerivedFromEquivalence)
	})

	t.Run("first occurrence decides the context", func(t *testing.T) {
		f := newFixture(t)
		g1 := f.id(t, "G1")
		g2 := f.id(t, "G2")
		q := f.assert(t, "Lassie", rdfType, "Dog", g2)
		f.assert(t, "Lassie", rdfType, "Dog", g1)

		props, err := Probe(ctx, f.mem, q.Subject, q.Predicate, q.Object)
		require.NoError(t, err)
		assert.Equal(t, g2, props.ExplicitContext)
	})

	t.Run("inferred only", func(t *testing.T) {
		f := newFixture(t)
		q := f.inferred(t, "Lassie", rdfType, "Mammal")

		props, err := Probe(ctx, f.mem, q.Subject, q.Predicate, q.Object)
		require.NoError(t, err)
		assert.False(t, props.IsExplicit)
		assert.Equal(t, ir.ExplicitGraph, props.ExplicitContext)
	})

	t.Run("deleted and hidden occurrences do not count", func(t *testing.T) {
		f := newFixture(t)
		q := f.assert(t, "Lassie", rdfType, "Dog", ir.ExplicitGraph)
		_, err := f.mem.Delete(ctx, q.Triple())
		require.NoError(t, err)
		f.put(t, "Lassie", rdfType, "Dog", f.id(t, "G1"), ir.StatusExplicit|ir.StatusSkipOnBrowse)

		props, err := Probe(ctx, f.mem, q.Subject, q.Predicate, q.Object)
		require.NoError(t, err)
		assert.False(t, props.IsExplicit)
	})

	t.Run("equivalence shortcut", func(t *testing.T) {
		f := newFixture(t)
		q := f.put(t, "Fido", rdfType, "Dog", ir.ExplicitGraph, ir.StatusExplicit|ir.StatusSkipOnReinfer)

		props, err := Probe(ctx, f.mem, q.Subject, q.Predicate, q.Object)
		require.NoError(t, err)
		assert.True(t, props.IsExplicit)
		assert.True(t, props.IsDerivedFromEquivalence)
	})

	t.Run("store failure", func(t *testing.T) {
		props, err := Probe(ctx, failingSource{}, 1, 2, 3)
		require.Error(t, err)
		assert.True(t, IsStoreError(err))
		assert.ErrorIs(t, err, errLookup)
		assert.False(t, props.IsExplicit)
	})
}
