package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/proof/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrRuleNameEmpty = "E100" // rule name is required

	// Rule shape errors (E101-E109)
	ErrRuleNoConclusions  = "E101" // at least one conclusion required
	ErrEmptyPosition      = "E102" // pattern position is empty
	ErrUnboundVariable    = "E103" // conclusion variable not bound by a premise
	ErrDuplicateRuleName  = "E104" // two rules share a name
	ErrInvalidVariable    = "E105" // malformed variable name
	ErrConclusionIsInput  = "E106" // conclusion repeats a premise verbatim
	ErrRuleNameWhitespace = "E107" // rule name contains whitespace
)

// variableName matches the part after the "?" prefix.
var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Rule    string `json:"rule"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Rule, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled rules.
// Returns all errors found (does not fail-fast).
func Validate(rules []ir.RuleSpec) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(rules))
	for i := range rules {
		rule := &rules[i]
		errs = append(errs, validateRule(rule)...)

		// E104: rule names identify justifications, so they must be unique
		if rule.Name != "" {
			if seen[rule.Name] {
				errs = append(errs, ValidationError{
					Rule:    rule.Name,
					Field:   "name",
					Message: "duplicate rule name",
					Code:    ErrDuplicateRuleName,
				})
			}
			seen[rule.Name] = true
		}
	}

	return errs
}

// validateRule validates a single rule.
func validateRule(rule *ir.RuleSpec) []ValidationError {
	var errs []ValidationError

	// E100: name is required
	if strings.TrimSpace(rule.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "rule name is required and must be non-empty",
			Code:    ErrRuleNameEmpty,
		})
	} else if strings.ContainsAny(rule.Name, " \t\n") {
		// E107
		errs = append(errs, ValidationError{
			Rule:    rule.Name,
			Field:   "name",
			Message: "rule name must not contain whitespace",
			Code:    ErrRuleNameWhitespace,
		})
	}

	// E101: at least one conclusion
	if len(rule.Conclusions) == 0 {
		errs = append(errs, ValidationError{
			Rule:    rule.Name,
			Field:   "conclusions",
			Message: "at least one conclusion is required",
			Code:    ErrRuleNoConclusions,
		})
	}

	errs = append(errs, validatePatterns(rule, "premises", rule.Premises)...)
	errs = append(errs, validatePatterns(rule, "conclusions", rule.Conclusions)...)

	// E103: every conclusion variable must be bound by a premise
	bound := collectVariables(rule.Premises)
	for i, c := range rule.Conclusions {
		for _, term := range c.Positions() {
			if !ir.IsVariable(term) || bound[term] {
				continue
			}
			errs = append(errs, ValidationError{
				Rule:    rule.Name,
				Field:   fmt.Sprintf("conclusions[%d]", i),
				Message: fmt.Sprintf("variable %s is not bound by any premise", term),
				Code:    ErrUnboundVariable,
			})
		}
	}

	// E106: a conclusion equal to a premise derives nothing
	for i, c := range rule.Conclusions {
		for _, p := range rule.Premises {
			if c == p {
				errs = append(errs, ValidationError{
					Rule:    rule.Name,
					Field:   fmt.Sprintf("conclusions[%d]", i),
					Message: "conclusion repeats a premise",
					Code:    ErrConclusionIsInput,
				})
				break
			}
		}
	}

	return errs
}

// validatePatterns checks every position of a pattern list.
func validatePatterns(rule *ir.RuleSpec, field string, patterns []ir.PatternSpec) []ValidationError {
	var errs []ValidationError
	for i, p := range patterns {
		path := fmt.Sprintf("%s[%d]", field, i)
		for j, term := range p.Positions() {
			pos := path + "." + [3]string{"s", "p", "o"}[j]
			switch {
			case strings.TrimSpace(term) == "":
				errs = append(errs, ValidationError{
					Rule:    rule.Name,
					Field:   pos,
					Message: "position must not be empty",
					Code:    ErrEmptyPosition,
				})
			case strings.HasPrefix(term, ir.VariablePrefix) && !isValidVariable(term):
				errs = append(errs, ValidationError{
					Rule:    rule.Name,
					Field:   pos,
					Message: fmt.Sprintf("invalid variable %q", term),
					Code:    ErrInvalidVariable,
				})
			}
		}
	}
	return errs
}

// isValidVariable checks a "?name" term.
func isValidVariable(term string) bool {
	return ir.IsVariable(term) && variableName.MatchString(term[len(ir.VariablePrefix):])
}

// collectVariables returns every variable used in patterns.
func collectVariables(patterns []ir.PatternSpec) map[string]bool {
	vars := make(map[string]bool)
	for _, p := range patterns {
		for _, term := range p.Positions() {
			if ir.IsVariable(term) {
				vars[term] = true
			}
		}
	}
	return vars
}
