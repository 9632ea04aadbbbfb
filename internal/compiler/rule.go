package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/proof/internal/ir"
)

// Prefixes maps a namespace prefix to the IRI it abbreviates.
type Prefixes map[string]string

// Expand turns a rule term into the string that gets interned.
//
//   - "?x" stays a variable
//   - "<http://...>" loses its angle brackets
//   - "rdf:type" expands when "rdf" is a declared prefix
//
// Anything else, including a prefixed name with an undeclared prefix such
// as "urn:John", is taken verbatim.
func (p Prefixes) Expand(term string) string {
	if ir.IsVariable(term) {
		return term
	}
	if strings.HasPrefix(term, "<") && strings.HasSuffix(term, ">") && len(term) > 2 {
		return term[1 : len(term)-1]
	}
	if i := strings.Index(term, ":"); i > 0 {
		if ns, ok := p[term[:i]]; ok {
			return ns + term[i+1:]
		}
	}
	return term
}

// ParsePrefixes reads the top-level prefix struct. A missing struct yields
// an empty map.
func ParsePrefixes(root cue.Value) (Prefixes, error) {
	prefixes := Prefixes{}
	v := root.LookupPath(cue.ParsePath("prefix"))
	if !v.Exists() {
		return prefixes, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		ns, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "prefix." + iter.Label(),
				Message: "prefix must map to a string",
				Pos:     iter.Value().Pos(),
			}
		}
		prefixes[iter.Label()] = ns
	}
	return prefixes, nil
}

// CompileRule parses a CUE value into a RuleSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the rule struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`rule: cax_sco: { ... }`)
//	spec, err := CompileRule(v.LookupPath(cue.ParsePath("rule.cax_sco")), nil)
func CompileRule(v cue.Value, prefixes Prefixes) (*ir.RuleSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "rule", Message: "rule not found"}
	}

	spec := &ir.RuleSpec{}

	// Rule name from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].Unquoted()
	}

	// A rule may have an explicit name that overrides the label
	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Name = name
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, &CompileError{
			Field:   "name",
			Message: "rule name is required",
			Pos:     v.Pos(),
		}
	}

	// Premises are optional: a rule without premises is an axiom schema
	var err error
	spec.Premises, err = parsePatterns(v, "premises", prefixes)
	if err != nil {
		return nil, err
	}

	spec.Conclusions, err = parsePatterns(v, "conclusions", prefixes)
	if err != nil {
		return nil, err
	}
	if len(spec.Conclusions) == 0 {
		return nil, &CompileError{
			Field:   "conclusions",
			Message: "at least one conclusion is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// parsePatterns reads a list of {s, p, o} patterns.
func parsePatterns(v cue.Value, field string, prefixes Prefixes) ([]ir.PatternSpec, error) {
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return []ir.PatternSpec{}, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a list of {s, p, o} patterns",
			Pos:     listVal.Pos(),
		}
	}

	patterns := []ir.PatternSpec{}
	for i := 0; iter.Next(); i++ {
		p, err := parsePattern(iter.Value(), fmt.Sprintf("%s[%d]", field, i), prefixes)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// parsePattern reads one {s, p, o} struct.
func parsePattern(v cue.Value, field string, prefixes Prefixes) (ir.PatternSpec, error) {
	var terms [3]string
	for i, key := range [3]string{"s", "p", "o"} {
		termVal := v.LookupPath(cue.ParsePath(key))
		if !termVal.Exists() {
			return ir.PatternSpec{}, &CompileError{
				Field:   field + "." + key,
				Message: "position is required",
				Pos:     v.Pos(),
			}
		}
		term, err := termVal.String()
		if err != nil {
			return ir.PatternSpec{}, &CompileError{
				Field:   field + "." + key,
				Message: "position must be a string",
				Pos:     termVal.Pos(),
			}
		}
		if strings.TrimSpace(term) == "" {
			return ir.PatternSpec{}, &CompileError{
				Field:   field + "." + key,
				Message: "position must not be empty",
				Pos:     termVal.Pos(),
			}
		}
		terms[i] = prefixes.Expand(term)
	}
	return ir.PatternSpec{Subject: terms[0], Predicate: terms[1], Object: terms[2]}, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
