package explain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/ir"
)

func newTestCollector(f *fixture, target ir.Quad, policy config.Policy) *Collector {
	return NewCollector(target, NewResolver(f.mem, policy), policy, nil)
}

func TestCollector_SubclassExample(t *testing.T) {
	f := newFixture(t)
	g1 := f.id(t, "G1")
	animal := f.assert(t, "A", rdfType, "Animal", g1)
	target := f.quad(t, "A", rdfType, "Dog", g1)

	for i := 0; i < 2; i++ {
		c := newTestCollector(f, target, config.DefaultPolicy())
		more, err := c.Report(context.Background(), "subclass", infer.NewSolutions(
			[]ir.Statement{explicit(animal)},
		))
		require.NoError(t, err)
		assert.True(t, more)

		got := c.Justifications().All()
		require.Len(t, got, 1)
		assert.Equal(t, "subclass", got[0].Rule)
		assert.Equal(t, []ir.Quad{animal}, got[0].Premises)
	}
}

func TestCollector_SelfReferenceDropsGroup(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "A", rdfType, "Dog", ir.ExplicitGraph)
	other := f.assert(t, "Dog", subClassOf, "Dog", ir.ExplicitGraph)
	self := ir.Statement{Quad: target.InContext(ir.ImplicitGraph), Status: ir.StatusInferred}

	c := newTestCollector(f, target, config.DefaultPolicy())
	more, err := c.Report(context.Background(), "cax_sco", infer.NewSolutions(
		[]ir.Statement{self, explicit(other)},
	))
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, 0, c.Justifications().Len())
	assert.Equal(t, 1, c.Stats().SelfReferences)
}

func TestCollector_OutOfScopeRejectsWholeGroup(t *testing.T) {
	f := newFixture(t)
	g1 := f.id(t, "G1")
	g2 := f.id(t, "G2")
	target := f.quad(t, "Lassie", rdfType, "Mammal", g1)
	visible := f.assert(t, "Dog", subClassOf, "Mammal", ir.ExplicitGraph)
	hidden := f.assert(t, "Lassie", rdfType, "Dog", g2)

	c := newTestCollector(f, target, config.DefaultPolicy())
	_, err := c.Report(context.Background(), "cax_sco", infer.NewSolutions(
		[]ir.Statement{explicit(hidden), explicit(visible)},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Justifications().Len())
	assert.Equal(t, 1, c.Stats().OutOfScope)
	assert.Equal(t, 0, c.Stats().Kept)
}

func TestCollector_Deduplication(t *testing.T) {
	f := newFixture(t)
	g1 := f.id(t, "G1")
	target := f.quad(t, "A", rdfType, "Dog", g1)
	a := f.assert(t, "A", rdfType, "Animal", g1)
	b := f.assert(t, "Animal", subClassOf, "Dog", ir.ExplicitGraph)

	// The same premises reported from different physical occurrences and
	// in a different order collapse to one justification.
	aElsewhere := ir.Statement{Quad: a.InContext(ir.ImplicitGraph), Status: ir.StatusInferred}

	c := newTestCollector(f, target, config.DefaultPolicy())
	_, err := c.Report(context.Background(), "cax_sco", infer.NewSolutions(
		[]ir.Statement{explicit(a), explicit(b)},
		[]ir.Statement{explicit(b), aElsewhere},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Justifications().Len())
	assert.Equal(t, 1, c.Stats().Duplicates)

	// A different rule with the same premises is a different justification.
	_, err = c.Report(context.Background(), "other", infer.NewSolutions(
		[]ir.Statement{explicit(a), explicit(b)},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Justifications().Len())
}

func TestCollector_StatusExcludedFromDedup(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "A", rdfType, "Dog", ir.ExplicitGraph)
	a := f.assert(t, "A", rdfType, "Animal", ir.ExplicitGraph)

	c := newTestCollector(f, target, config.DefaultPolicy())
	_, err := c.Report(context.Background(), "r", infer.NewSolutions(
		[]ir.Statement{{Quad: a, Status: ir.StatusExplicit}},
		[]ir.Statement{{Quad: a, Status: ir.StatusExplicit | ir.StatusAxiom}},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Justifications().Len())
}

func TestCollector_DuplicatePremisesWithinGroup(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "A", rdfType, "Dog", ir.ExplicitGraph)
	a := f.assert(t, "A", rdfType, "Animal", ir.ExplicitGraph)

	c := newTestCollector(f, target, config.DefaultPolicy())
	_, err := c.Report(context.Background(), "r", infer.NewSolutions(
		[]ir.Statement{explicit(a), explicit(a)},
	))
	require.NoError(t, err)
	got := c.Justifications().All()
	require.Len(t, got, 1)
	assert.Len(t, got[0].Premises, 1)
}

func TestCollector_Axioms(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "Thing", rdfType, "Class", ir.ExplicitGraph)

	t.Run("allowed", func(t *testing.T) {
		c := newTestCollector(f, target, config.DefaultPolicy())
		_, err := c.Report(context.Background(), "axiom", infer.NewSolutions([]ir.Statement{}))
		require.NoError(t, err)
		got := c.Justifications().All()
		require.Len(t, got, 1)
		assert.True(t, got[0].IsAxiom())
	})

	t.Run("disallowed", func(t *testing.T) {
		policy := config.DefaultPolicy()
		policy.AllowAxioms = false
		c := newTestCollector(f, target, policy)
		_, err := c.Report(context.Background(), "axiom", infer.NewSolutions([]ir.Statement{}))
		require.NoError(t, err)
		assert.Equal(t, 0, c.Justifications().Len())
		assert.Equal(t, 1, c.Stats().AxiomsDropped)
	})
}

func TestCollector_ImplicitOnlyGroups(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "Lassie", rdfType, "Animal", ir.ExplicitGraph)
	mammal := f.inferred(t, "Lassie", rdfType, "Mammal")
	group := []ir.Statement{{Quad: mammal, Status: ir.StatusInferred}}

	t.Run("kept by default", func(t *testing.T) {
		c := newTestCollector(f, target, config.DefaultPolicy())
		_, err := c.Report(context.Background(), "cax_sco", infer.NewSolutions(group))
		require.NoError(t, err)
		got := c.Justifications().All()
		require.Len(t, got, 1)
		assert.Equal(t, []ir.Quad{mammal}, got[0].Premises)
	})

	t.Run("dropped when explicit support is required", func(t *testing.T) {
		policy := config.DefaultPolicy()
		policy.RequireExplicitSupport = true
		c := newTestCollector(f, target, policy)
		_, err := c.Report(context.Background(), "cax_sco", infer.NewSolutions(group))
		require.NoError(t, err)
		assert.Equal(t, 0, c.Justifications().Len())
		assert.Equal(t, 1, c.Stats().ImplicitOnly)
	})
}

func TestCollector_ContractViolations(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "A", rdfType, "Dog", ir.ExplicitGraph)

	t.Run("unnamed rule", func(t *testing.T) {
		c := newTestCollector(f, target, config.DefaultPolicy())
		_, err := c.Report(context.Background(), "", infer.NewSolutions())
		require.Error(t, err)
		assert.True(t, IsContractError(err))
	})

	t.Run("solution stream error", func(t *testing.T) {
		c := newTestCollector(f, target, config.DefaultPolicy())
		_, err := c.Report(context.Background(), "broken", &brokenSolutions{})
		require.Error(t, err)
		assert.True(t, IsContractError(err))

		var ee *ExplainError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "broken", ee.Rule)
	})

	t.Run("store failure", func(t *testing.T) {
		policy := config.DefaultPolicy()
		c := NewCollector(target, NewResolver(failingSource{}, policy), policy, nil)
		_, err := c.Report(context.Background(), "r", infer.NewSolutions(
			[]ir.Statement{ir.NewStatement(7, 8, 9, ir.ExplicitGraph, ir.StatusExplicit)},
		))
		require.Error(t, err)
		assert.True(t, IsStoreError(err))
	})
}

func TestCollector_LogsDroppedGroups(t *testing.T) {
	f := newFixture(t)
	target := f.quad(t, "A", rdfType, "Dog", ir.ExplicitGraph)
	core, logs := observer.New(zapcore.DebugLevel)

	policy := config.DefaultPolicy()
	c := NewCollector(target, NewResolver(f.mem, policy), policy, zap.New(core))
	_, err := c.Report(context.Background(), "cax_sco", infer.NewSolutions(
		[]ir.Statement{{Quad: target, Status: ir.StatusInferred}},
	))
	require.NoError(t, err)

	entries := logs.FilterMessage("rule group dropped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cax_sco", entries[0].ContextMap()["rule"])
	assert.Equal(t, "self-referential", entries[0].ContextMap()["reason"])
}
