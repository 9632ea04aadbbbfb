package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the target's outcome to help debug the failure.
type AssertionError struct {
	Type     string  // Assertion type for categorization
	Target   string  // Target the assertion was about
	Expected string  // Human-readable expected outcome
	Actual   string  // Human-readable actual outcome
	Outcome  Outcome // Full outcome for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Target: %s\n", e.Target)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nJustifications:\n")
	if len(e.Outcome.Justifications) == 0 {
		fmt.Fprintf(&buf, "  (none)\n")
	}
	for i, j := range e.Outcome.Justifications {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, j.Rule)
		for _, p := range j.Premises {
			fmt.Fprintf(&buf, "      %s\n", p)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages. An empty slice means every assertion held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	errs := []string{}
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	outcome, ok := result.Outcome(a.Target)
	if !ok {
		return fmt.Errorf("target %q was not explained", a.Target)
	}

	switch a.Type {
	case AssertJustifiedBy:
		return assertJustifiedBy(outcome, a)
	case AssertNotJustifiedBy:
		return assertNotJustifiedBy(outcome, a)
	case AssertJustificationCount:
		return assertCount(outcome, a)
	case AssertEmpty:
		return assertEmpty(outcome, a)
	case AssertExplicit:
		return assertExplicit(outcome, a)
	case AssertOutOfScope:
		return assertOutOfScope(outcome, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertJustifiedBy checks that one of the target's justifications uses the
// rule with exactly the given premises, in any order.
func assertJustifiedBy(outcome Outcome, a Assertion) error {
	want := sortedCopy(a.Premises)
	for _, j := range outcome.Justifications {
		if j.Rule == a.Rule && slices.Equal(sortedCopy(j.Premises), want) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertJustifiedBy,
		Target:   a.Target,
		Expected: fmt.Sprintf("rule %s with premises %v", a.Rule, a.Premises),
		Actual:   "no matching justification",
		Outcome:  outcome,
	}
}

// assertNotJustifiedBy checks that no justification uses the rule.
func assertNotJustifiedBy(outcome Outcome, a Assertion) error {
	for _, j := range outcome.Justifications {
		if j.Rule == a.Rule {
			return &AssertionError{
				Type:     AssertNotJustifiedBy,
				Target:   a.Target,
				Expected: fmt.Sprintf("no justification by rule %s", a.Rule),
				Actual:   fmt.Sprintf("justified by %s with premises %v", j.Rule, j.Premises),
				Outcome:  outcome,
			}
		}
	}
	return nil
}

// assertCount checks the exact number of justifications.
func assertCount(outcome Outcome, a Assertion) error {
	if got := len(outcome.Justifications); got != a.Count {
		return &AssertionError{
			Type:     AssertJustificationCount,
			Target:   a.Target,
			Expected: fmt.Sprintf("%d justification(s)", a.Count),
			Actual:   fmt.Sprintf("%d justification(s)", got),
			Outcome:  outcome,
		}
	}
	return nil
}

func assertEmpty(outcome Outcome, a Assertion) error {
	if len(outcome.Justifications) != 0 {
		return &AssertionError{
			Type:     AssertEmpty,
			Target:   a.Target,
			Expected: "no justifications",
			Actual:   fmt.Sprintf("%d justification(s)", len(outcome.Justifications)),
			Outcome:  outcome,
		}
	}
	return nil
}

func assertExplicit(outcome Outcome, a Assertion) error {
	if !outcome.Explicit {
		return &AssertionError{
			Type:     AssertExplicit,
			Target:   a.Target,
			Expected: "answered by the explicit fast path",
			Actual:   "not explicit",
			Outcome:  outcome,
		}
	}
	return nil
}

// assertOutOfScope checks how many rule groups were rejected because an
// antecedent lived in a graph the target cannot see.
func assertOutOfScope(outcome Outcome, a Assertion) error {
	if got := outcome.Stats.OutOfScope; got != a.Count {
		return &AssertionError{
			Type:     AssertOutOfScope,
			Target:   a.Target,
			Expected: fmt.Sprintf("%d out-of-scope group(s)", a.Count),
			Actual:   fmt.Sprintf("%d out-of-scope group(s)", got),
			Outcome:  outcome,
		}
	}
	return nil
}

func sortedCopy(items []string) []string {
	out := slices.Clone(items)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}
