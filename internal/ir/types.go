package ir

import "fmt"

// ID is an interned identifier for a term, a graph or a request-scoped
// entity. Term IDs handed out by a store are always positive.
type ID int64

// Reserved identifiers. They never collide with interned term IDs.
const (
	// NoContext marks an unspecified context and acts as a wildcard in lookups.
	NoContext ID = 0

	// ExplicitGraph is the shared default graph that holds asserted facts
	// loaded without a named graph.
	ExplicitGraph ID = -1

	// ImplicitGraph holds facts that exist only as inference results.
	ImplicitGraph ID = -2

	// RequestIDBase is the first request-scoped identifier. Request IDs count
	// down from here so they stay clear of the reserved graph IDs.
	RequestIDBase ID = -1 << 40
)

// Well-known graph names used when reserved IDs are rendered.
const (
	ExplicitGraphIRI = "http://www.ontotext.com/explicit"
	ImplicitGraphIRI = "http://www.ontotext.com/implicit"
)

// IsReserved reports whether id is one of the system graph identifiers.
func (id ID) IsReserved() bool {
	return id == ExplicitGraph || id == ImplicitGraph
}

// Quad is the identity of a stored fact: subject, predicate, object and the
// graph (context) it lives in. Status is deliberately not part of a Quad.
type Quad struct {
	Subject   ID `json:"subject"`
	Predicate ID `json:"predicate"`
	Object    ID `json:"object"`
	Context   ID `json:"context"`
}

// NewQuad builds a quad from its four positions.
func NewQuad(s, p, o, c ID) Quad {
	return Quad{Subject: s, Predicate: p, Object: o, Context: c}
}

// Triple returns the quad with its context cleared.
func (q Quad) Triple() Quad {
	return Quad{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
}

// SameTriple reports whether q and other agree on subject, predicate and
// object, ignoring context.
func (q Quad) SameTriple(other Quad) bool {
	return q.Subject == other.Subject &&
		q.Predicate == other.Predicate &&
		q.Object == other.Object
}

// InContext returns a copy of q placed in context c.
func (q Quad) InContext(c ID) Quad {
	q.Context = c
	return q
}

// Valid reports whether subject, predicate and object are all bound to real
// terms. The context may be anything, including NoContext.
func (q Quad) Valid() bool {
	return q.Subject > 0 && q.Predicate > 0 && q.Object > 0
}

// Values returns the quad as a four element array in s, p, o, c order.
func (q Quad) Values() [4]ID {
	return [4]ID{q.Subject, q.Predicate, q.Object, q.Context}
}

// Less orders quads by subject, predicate, object, then context.
func (q Quad) Less(other Quad) bool {
	a, b := q.Values(), other.Values()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (q Quad) String() string {
	return fmt.Sprintf("(%d %d %d %d)", q.Subject, q.Predicate, q.Object, q.Context)
}

// Status is the bit set a store keeps alongside every occurrence of a quad.
type Status uint32

const (
	// StatusExplicit marks an asserted occurrence.
	StatusExplicit Status = 1 << iota

	// StatusInferred marks an occurrence produced by the reasoner.
	StatusInferred

	// StatusAxiom marks an occurrence that belongs to the axiomatic base.
	StatusAxiom

	// StatusDeleted marks a soft-deleted occurrence.
	StatusDeleted

	// StatusSkipOnBrowse hides an occurrence from ordinary browsing.
	StatusSkipOnBrowse

	// StatusSkipOnReinfer marks an occurrence obtained through an
	// equivalence (same-as) shortcut rather than a rule application.
	StatusSkipOnReinfer
)

// Lookup masks. A store skips every occurrence whose status intersects the mask.
const (
	// ExplicitProbeMask hides everything that is not a live asserted occurrence.
	ExplicitProbeMask = StatusDeleted | StatusSkipOnBrowse | StatusInferred

	// ContextLookupMask hides deleted and hidden occurrences but keeps
	// inferred ones, so implicit-only antecedents can still be classified.
	ContextLookupMask = StatusDeleted | StatusSkipOnBrowse
)

// Has reports whether every bit of flag is set.
func (s Status) Has(flag Status) bool {
	return s&flag == flag
}

// Intersects reports whether any bit of mask is set.
func (s Status) Intersects(mask Status) bool {
	return s&mask != 0
}

// Statement is one stored occurrence: a quad plus its status bits.
type Statement struct {
	Quad   Quad   `json:"quad"`
	Status Status `json:"status"`
}

// NewStatement builds a statement from its positions and status.
func NewStatement(s, p, o, c ID, status Status) Statement {
	return Statement{Quad: NewQuad(s, p, o, c), Status: status}
}

// ExplicitProps is the result of probing whether a triple is asserted.
type ExplicitProps struct {
	// IsExplicit is true when at least one live asserted occurrence exists.
	IsExplicit bool `json:"is_explicit"`

	// ExplicitContext is the context of the first asserted occurrence, or
	// ExplicitGraph when there is none.
	ExplicitContext ID `json:"explicit_context"`

	// IsDerivedFromEquivalence is true when that first occurrence was produced
	// by an equivalence shortcut.
	IsDerivedFromEquivalence bool `json:"is_derived_from_equivalence"`
}
