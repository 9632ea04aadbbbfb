package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proof/internal/ir"
)

func cursorItems() []ir.Justification {
	return []ir.Justification{
		{Rule: "cax_sco", Premises: []ir.Quad{
			ir.NewQuad(1, 2, 3, ir.ExplicitGraph),
			ir.NewQuad(3, 4, 5, ir.ExplicitGraph),
		}},
		{Rule: "axiom"},
		{Rule: "prp_inv1", Premises: []ir.Quad{
			ir.NewQuad(6, 7, 8, 9),
		}},
	}
}

func TestCursor_Walk(t *testing.T) {
	c := NewCursor(cursorItems())
	assert.Equal(t, BetweenJustifications, c.State())
	assert.Equal(t, "", c.Rule())

	rows := flatten(c)
	require.Equal(t, []row{
		{Rule: "cax_sco", Premise: ir.NewQuad(1, 2, 3, ir.ExplicitGraph), HasPremise: true},
		{Rule: "cax_sco", Premise: ir.NewQuad(3, 4, 5, ir.ExplicitGraph), HasPremise: true},
		{Rule: "axiom"},
		{Rule: "prp_inv1", Premise: ir.NewQuad(6, 7, 8, 9), HasPremise: true},
	}, rows)
	assert.True(t, c.Exhausted())
}

func TestCursor_ExhaustionIsSticky(t *testing.T) {
	c := NewCursor(cursorItems())
	for c.Next() {
	}
	for i := 0; i < 3; i++ {
		assert.False(t, c.Next())
		assert.Equal(t, Exhausted, c.State())
		assert.Equal(t, [4]ir.ID{}, c.Values())
	}
}

func TestCursor_Empty(t *testing.T) {
	c := NewCursor(nil)
	assert.True(t, c.Exhausted())
	assert.False(t, c.Next())
	_, ok := c.Justification()
	assert.False(t, ok)
}

func TestCursor_Values(t *testing.T) {
	c := NewCursor(cursorItems())
	require.True(t, c.Next())
	assert.Equal(t, AtPremise, c.State())
	assert.Equal(t, [4]ir.ID{1, 2, 3, ir.ExplicitGraph}, c.Values())

	just, premise := c.Position()
	assert.Equal(t, 0, just)
	assert.Equal(t, 1, premise)

	require.True(t, c.Next())
	require.True(t, c.Next())
	assert.Equal(t, "axiom", c.Rule())
	_, ok := c.Premise()
	assert.False(t, ok)
	assert.Equal(t, [4]ir.ID{}, c.Values())
}

func TestCursor_ExhaustedStaysExhausted(t *testing.T) {
	c := NewCursor(cursorItems())
	require.NotEmpty(t, flatten(c))
	require.True(t, c.Exhausted())

	for i := 0; i < 3; i++ {
		assert.False(t, c.Next())
		assert.Equal(t, Exhausted, c.State())
		assert.Equal(t, "", c.Rule())
		_, ok := c.Justification()
		assert.False(t, ok)
	}
	assert.Empty(t, flatten(c))
}

func TestCursor_Close(t *testing.T) {
	c := NewCursor(cursorItems())
	require.True(t, c.Next())
	c.Close()

	assert.True(t, c.Exhausted())
	assert.False(t, c.Next())
	assert.Equal(t, "", c.Rule())
	assert.False(t, c.Next())
}

func TestCursorState_String(t *testing.T) {
	assert.Equal(t, "at-premise", AtPremise.String())
	assert.Equal(t, "between-justifications", BetweenJustifications.String())
	assert.Equal(t, "exhausted", Exhausted.String())
}
