package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJustificationSet_DedupesStructurally(t *testing.T) {
	a := NewQuad(1, 2, 3, ExplicitGraph)
	b := NewQuad(3, 4, 5, ExplicitGraph)

	set := NewJustificationSet()
	assert.True(t, set.Add(Justification{Rule: "r", Premises: []Quad{a, b}}))
	assert.False(t, set.Add(Justification{Rule: "r", Premises: []Quad{b, a}}), "same premise set")
	assert.True(t, set.Add(Justification{Rule: "s", Premises: []Quad{a, b}}), "different rule")
	assert.True(t, set.Add(Justification{Rule: "r", Premises: []Quad{a}}), "different premises")

	require.Equal(t, 3, set.Len())
	assert.Equal(t, "r", set.At(0).Rule)
	assert.Equal(t, []Quad{a, b}, set.At(0).Premises, "first insertion wins and keeps its order")
	assert.Equal(t, "s", set.At(1).Rule)
}

func TestJustificationSet_Contains(t *testing.T) {
	j := Justification{Rule: RuleExplicit, Premises: []Quad{NewQuad(1, 2, 3, 4)}}

	set := NewJustificationSet()
	assert.False(t, set.Contains(j))
	set.Add(j)
	assert.True(t, set.Contains(j))
}

func TestJustificationSet_NilIsEmpty(t *testing.T) {
	var set *JustificationSet
	assert.Equal(t, 0, set.Len())
	assert.NotNil(t, set.All())
	assert.Empty(t, set.All())
}

func TestJustification_Equal(t *testing.T) {
	a := NewQuad(1, 2, 3, ExplicitGraph)
	b := NewQuad(3, 4, 5, ImplicitGraph)

	assert.True(t, Justification{Rule: "r", Premises: []Quad{a, b}}.Equal(Justification{Rule: "r", Premises: []Quad{b, a}}))
	assert.False(t, Justification{Rule: "r", Premises: []Quad{a}}.Equal(Justification{Rule: "r", Premises: []Quad{b}}))
	assert.True(t, Justification{Rule: "axiom"}.IsAxiom())
}
