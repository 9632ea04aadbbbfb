package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/proof/internal/ir"
)

// Snapshot captures the rendered outcomes of a scenario execution.
// Statistics are left out: they describe how the backend reported, not what
// was explained.
type Snapshot struct {
	ScenarioName string    `json:"scenario_name"`
	Outcomes     []Outcome `json:"outcomes"`
}

// toCanonical converts a Snapshot to an ir.Object for canonical JSON
// serialization.
func (s *Snapshot) toCanonical() ir.Object {
	outcomes := make(ir.Array, len(s.Outcomes))
	for i, o := range s.Outcomes {
		justifications := make(ir.Array, len(o.Justifications))
		for k, j := range o.Justifications {
			premises := make(ir.Array, len(j.Premises))
			for n, p := range j.Premises {
				premises[n] = ir.String(p)
			}
			justifications[k] = ir.Object{
				"rule":     ir.String(j.Rule),
				"premises": premises,
			}
		}
		outcomes[i] = ir.Object{
			"target":         ir.String(o.Target),
			"request_id":     ir.Int(o.RequestID),
			"token":          ir.String(o.Token),
			"explicit":       ir.Bool(o.Explicit),
			"justifications": justifications,
		}
	}

	return ir.Object{
		"scenario_name": ir.String(s.ScenarioName),
		"outcomes":      outcomes,
	}
}

// RunWithGolden executes a scenario and compares its outcomes against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the outcomes don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Outcomes:     result.Outcomes,
	}
	data, err := ir.MarshalCanonical(snapshot.toCanonical())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
