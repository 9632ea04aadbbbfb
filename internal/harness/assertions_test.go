package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proof/internal/explain"
)

var (
	lassieDogPremise = "<urn:Lassie> <" + rdfType + "> <urn:Dog> " + explicitG
	dogMammalPremise = "<urn:Dog> <" + subClassOf + "> <urn:Mammal> " + explicitG
)

func sampleResult() *Result {
	r := NewResult()
	r.Outcomes = []Outcome{
		{
			Target: lassieMammal,
			Justifications: []JustificationView{
				{Rule: "cax_sco", Premises: []string{lassieDogPremise, dogMammalPremise}},
			},
		},
		{
			Target:   lassieDog,
			Explicit: true,
			Justifications: []JustificationView{
				{Rule: "explicit", Premises: []string{lassieDogPremise}},
			},
		},
		{
			Target:         "<urn:Mary> <urn:hasChild> <urn:John> .",
			Justifications: []JustificationView{},
			Stats:          explain.Stats{OutOfScope: 1},
		},
	}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		// Premise order does not matter.
		{Type: AssertJustifiedBy, Target: lassieMammal, Rule: "cax_sco", Premises: []string{dogMammalPremise, lassieDogPremise}},
		{Type: AssertNotJustifiedBy, Target: lassieMammal, Rule: "prp_inv1"},
		{Type: AssertJustificationCount, Target: lassieMammal, Count: 1},
		{Type: AssertExplicit, Target: lassieDog},
		{Type: AssertEmpty, Target: "<urn:Mary> <urn:hasChild> <urn:John> ."},
		{Type: AssertOutOfScope, Target: "<urn:Mary> <urn:hasChild> <urn:John> .", Count: 1},
		{Type: AssertOutOfScope, Target: lassieMammal, Count: 0},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{
			name:      "justified_by with missing premise",
			assertion: Assertion{Type: AssertJustifiedBy, Target: lassieMammal, Rule: "cax_sco", Premises: []string{lassieDogPremise}},
			want:      "no matching justification",
		},
		{
			name:      "justified_by with wrong rule",
			assertion: Assertion{Type: AssertJustifiedBy, Target: lassieMammal, Rule: "scm_sco", Premises: []string{lassieDogPremise, dogMammalPremise}},
			want:      "rule scm_sco",
		},
		{
			name:      "not_justified_by",
			assertion: Assertion{Type: AssertNotJustifiedBy, Target: lassieMammal, Rule: "cax_sco"},
			want:      "justified by cax_sco",
		},
		{
			name:      "count",
			assertion: Assertion{Type: AssertJustificationCount, Target: lassieMammal, Count: 2},
			want:      "Expected: 2 justification(s)",
		},
		{
			name:      "empty",
			assertion: Assertion{Type: AssertEmpty, Target: lassieDog},
			want:      "Actual: 1 justification(s)",
		},
		{
			name:      "explicit",
			assertion: Assertion{Type: AssertExplicit, Target: lassieMammal},
			want:      "Actual: not explicit",
		},
		{
			name:      "out_of_scope",
			assertion: Assertion{Type: AssertOutOfScope, Target: lassieMammal, Count: 1},
			want:      "Actual: 0 out-of-scope group(s)",
		},
		{
			name:      "unexplained target",
			assertion: Assertion{Type: AssertEmpty, Target: "<urn:x> <urn:y> <urn:z> ."},
			want:      "was not explained",
		},
		{
			name:      "unknown type",
			assertion: Assertion{Type: "trace_count", Target: lassieDog},
			want:      `unknown assertion type "trace_count"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], "assertions[0]:")
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestEvaluateAssertions_CollectsAll(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertEmpty, Target: lassieMammal},
		{Type: AssertExplicit, Target: lassieDog},
		{Type: AssertExplicit, Target: lassieMammal},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[0]:")
	assert.Contains(t, errs[1], "assertions[2]:")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertJustificationCount,
		Target:   lassieMammal,
		Expected: "2 justification(s)",
		Actual:   "1 justification(s)",
		Outcome:  sampleResult().Outcomes[0],
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: justification_count")
	assert.Contains(t, msg, "  Target: "+lassieMammal)
	assert.Contains(t, msg, "  Expected: 2 justification(s)")
	assert.Contains(t, msg, "  Actual: 1 justification(s)")
	assert.Contains(t, msg, "  [1] cax_sco\n      "+lassieDogPremise)
}

func TestAssertionError_FormatEmptyOutcome(t *testing.T) {
	err := &AssertionError{Type: AssertExplicit, Target: lassieDog, Expected: "x", Actual: "y"}
	assert.Contains(t, err.Error(), "(none)")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
