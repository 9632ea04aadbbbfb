package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proof/internal/ir"
)

func TestRunWithGolden(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestAssertGolden_ReusesResult(t *testing.T) {
	scenario := loadTestdata(t, "named_graphs.yaml")
	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, scenario.Name, result))
}

func TestSnapshot_CanonicalForm(t *testing.T) {
	snapshot := Snapshot{
		ScenarioName: "tiny",
		Outcomes: []Outcome{{
			Target:    "<urn:a> <urn:b> <urn:c> .",
			RequestID: int64(ir.RequestIDBase),
			Token:     "t",
			Justifications: []JustificationView{
				{Rule: "axiomatic", Premises: []string{}},
			},
		}},
	}

	data, err := ir.MarshalCanonical(snapshot.toCanonical())
	require.NoError(t, err)

	// Keys sorted, no whitespace, angle brackets left alone.
	assert.Equal(t,
		`{"outcomes":[{"explicit":false,"justifications":[{"premises":[],"rule":"axiomatic"}],`+
			`"request_id":-1099511627776,"target":"<urn:a> <urn:b> <urn:c> .","token":"t"}],"scenario_name":"tiny"}`,
		string(data))
}
