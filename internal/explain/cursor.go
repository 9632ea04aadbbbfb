package explain

import "github.com/roach88/proof/internal/ir"

// CursorState is the position of a Cursor.
type CursorState int

const (
	// BetweenJustifications: nothing is exposed yet, or the previous
	// justification is finished and the next has not been entered.
	BetweenJustifications CursorState = iota

	// AtPremise: a premise (or an axiom's empty premise) is exposed.
	AtPremise

	// Exhausted: no more data. Terminal.
	Exhausted
)

func (s CursorState) String() string {
	switch s {
	case AtPremise:
		return "at-premise"
	case Exhausted:
		return "exhausted"
	default:
		return "between-justifications"
	}
}

// Cursor walks a request's justifications one premise at a time, in
// justification order and then premise order. A justification without
// premises is exposed exactly once with no premise, so axioms stay visible.
//
// Not safe for concurrent use.
type Cursor struct {
	items   []ir.Justification
	just    int // index of the justification being walked
	premise int // premises of items[just] already exposed
	state   CursorState
	closed  bool
}

// NewCursor creates a cursor over items. The slice is not copied.
func NewCursor(items []ir.Justification) *Cursor {
	c := &Cursor{items: items}
	if len(items) == 0 {
		c.state = Exhausted
	}
	return c
}

// Next exposes the next premise. It returns false once everything has been
// exposed, and keeps returning false after that.
func (c *Cursor) Next() bool {
	for !c.closed && c.just < len(c.items) {
		j := c.items[c.just]
		switch {
		case len(j.Premises) == 0 && c.premise == 0:
			c.premise = 1
			c.state = AtPremise
			return true
		case c.premise < len(j.Premises):
			c.premise++
			c.state = AtPremise
			return true
		}
		c.just++
		c.premise = 0
		c.state = BetweenJustifications
	}
	c.state = Exhausted
	return false
}

// State reports the cursor position.
func (c *Cursor) State() CursorState {
	return c.state
}

// Exhausted reports whether the cursor has nothing more to expose.
func (c *Cursor) Exhausted() bool {
	return c.state == Exhausted
}

// Justification returns the justification the exposed premise belongs to.
func (c *Cursor) Justification() (ir.Justification, bool) {
	if c.state != AtPremise {
		return ir.Justification{}, false
	}
	return c.items[c.just], true
}

// Rule returns the rule name of the exposed premise, or "" when nothing is
// exposed.
func (c *Cursor) Rule() string {
	j, ok := c.Justification()
	if !ok {
		return ""
	}
	return j.Rule
}

// Premise returns the exposed premise. The boolean is false when nothing is
// exposed or when the exposed justification is an axiom.
func (c *Cursor) Premise() (ir.Quad, bool) {
	j, ok := c.Justification()
	if !ok || len(j.Premises) == 0 {
		return ir.Quad{}, false
	}
	return j.Premises[c.premise-1], true
}

// Values returns the exposed premise as [s, p, o, c], or all zeros when no
// premise is exposed.
func (c *Cursor) Values() [4]ir.ID {
	q, ok := c.Premise()
	if !ok {
		return [4]ir.ID{}
	}
	return q.Values()
}

// Position returns the index of the current justification and how many of
// its premises have been exposed.
func (c *Cursor) Position() (justification, premise int) {
	return c.just, c.premise
}

// Close releases the justifications. Afterwards the cursor is exhausted.
func (c *Cursor) Close() {
	c.closed = true
	c.items = nil
	c.just, c.premise = 0, 0
	c.state = Exhausted
}
