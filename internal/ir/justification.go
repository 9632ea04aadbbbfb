package ir

// RuleExplicit names the justification of a fact that is asserted rather
// than derived.
const RuleExplicit = "explicit"

// Justification is one reason a fact holds: the rule that fired and the
// antecedent quads it fired on, each attributed to a context.
//
// Premises keep the order in which they were collected. Equality is
// set-based, see Key.
type Justification struct {
	Rule     string `json:"rule"`
	Premises []Quad `json:"premises"`
}

// Key returns the structural identity of j.
func (j Justification) Key() string {
	return MustJustificationKey(j.Rule, j.Premises)
}

// Equal reports whether j and other have the same rule and the same premise set.
func (j Justification) Equal(other Justification) bool {
	return j.Key() == other.Key()
}

// IsAxiom reports whether j has no premises.
func (j Justification) IsAxiom() bool {
	return len(j.Premises) == 0
}

// JustificationSet is an insertion-ordered set of structurally distinct
// justifications. The zero value is not usable; call NewJustificationSet.
type JustificationSet struct {
	items []Justification
	keys  map[string]struct{}
}

// NewJustificationSet creates an empty set.
func NewJustificationSet() *JustificationSet {
	return &JustificationSet{keys: make(map[string]struct{})}
}

// Add inserts j unless a structurally equal justification is already
// present. It reports whether j was inserted.
func (s *JustificationSet) Add(j Justification) bool {
	key := j.Key()
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.items = append(s.items, j)
	return true
}

// Contains reports whether a justification equal to j is present.
func (s *JustificationSet) Contains(j Justification) bool {
	_, ok := s.keys[j.Key()]
	return ok
}

// Len returns the number of justifications.
func (s *JustificationSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the i-th justification in insertion order.
func (s *JustificationSet) At(i int) Justification {
	return s.items[i]
}

// All returns the justifications in insertion order. The slice must not be
// modified.
func (s *JustificationSet) All() []Justification {
	if s == nil {
		return []Justification{}
	}
	return s.items
}
