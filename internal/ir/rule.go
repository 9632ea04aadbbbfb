package ir

import "strings"

// VariablePrefix introduces a variable in a rule pattern position.
const VariablePrefix = "?"

// PatternSpec is a triple pattern as written in a rule definition. Each
// position is either a variable ("?x") or a constant term.
type PatternSpec struct {
	Subject   string `json:"s"`
	Predicate string `json:"p"`
	Object    string `json:"o"`
}

// Positions returns the three positions in s, p, o order.
func (p PatternSpec) Positions() [3]string {
	return [3]string{p.Subject, p.Predicate, p.Object}
}

// RuleSpec is a rule as compiled from its definition, before constants are
// interned.
type RuleSpec struct {
	Name        string        `json:"name"`
	Premises    []PatternSpec `json:"premises"`
	Conclusions []PatternSpec `json:"conclusions"`
}

// IsVariable reports whether a pattern position names a variable.
func IsVariable(term string) bool {
	return strings.HasPrefix(term, VariablePrefix) && len(term) > len(VariablePrefix)
}

// Term is one position of an interned pattern: a variable name or a constant.
type Term struct {
	Var   string
	Const ID
}

// Var builds a variable term.
func Var(name string) Term { return Term{Var: name} }

// Const builds a constant term.
func Const(id ID) Term { return Term{Const: id} }

// IsVar reports whether t is a variable.
func (t Term) IsVar() bool { return t.Var != "" }

// Pattern is a triple pattern over interned terms.
type Pattern struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Terms returns the three positions in s, p, o order.
func (p Pattern) Terms() [3]Term {
	return [3]Term{p.Subject, p.Predicate, p.Object}
}

// Rule is an interned inference rule. A rule with no premises is an axiom
// schema: its conclusions hold unconditionally.
type Rule struct {
	Name        string
	Premises    []Pattern
	Conclusions []Pattern
}
