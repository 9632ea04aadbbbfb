package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/quads"
)

// Scenario defines an explanation scenario.
// A scenario seeds a store with quads, compiles a rules directory, explains
// each target in turn and checks the outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is the directory of CUE rule definitions.
	// Relative paths are resolved against the scenario file's directory.
	Rules string `yaml:"rules"`

	// Data holds the quads to load, one per line.
	Data string `yaml:"data"`

	// Policy replaces config.DefaultPolicy when present.
	Policy *config.Policy `yaml:"policy,omitempty"`

	// Inference switches the backend's reasoning on or off. Defaults to on.
	Inference *bool `yaml:"inference,omitempty"`

	// Materialize runs the rules to fixpoint before any target is explained.
	Materialize bool `yaml:"materialize,omitempty"`

	// Token is the fixed request token for deterministic tests.
	// If empty, testutil.DefaultToken is used.
	Token string `yaml:"token,omitempty"`

	// Explain lists the targets, in order.
	Explain []Step `yaml:"explain"`

	// Assertions validate the outcomes after every target was explained.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step explains one target.
type Step struct {
	// Target is a quad line, terminating period included.
	Target string `yaml:"target"`

	// Expect optionally checks the outcome right after the step runs.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
// Unset fields are not checked.
type ExpectClause struct {
	Explicit *bool `yaml:"explicit,omitempty"`
	Count    *int  `yaml:"count,omitempty"`
}

// Assertion validates the outcome of one target.
type Assertion struct {
	// Type specifies the assertion type:
	// - "justified_by": rule with exactly these premises is among the justifications
	// - "not_justified_by": no justification uses rule
	// - "justification_count": exactly Count justifications
	// - "empty": no justifications
	// - "explicit": answered by the explicit fast path
	// - "out_of_scope": exactly Count groups rejected as out of scope
	Type string `yaml:"type"`

	// Target must match the Target of one of the scenario's steps.
	Target string `yaml:"target"`

	// Rule is the rule name (used by justified_by, not_justified_by).
	Rule string `yaml:"rule,omitempty"`

	// Premises are rendered premise quads, graph included (used by justified_by).
	// Order does not matter.
	Premises []string `yaml:"premises,omitempty"`

	// Count is the expected number (used by justification_count, out_of_scope).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertJustifiedBy        = "justified_by"
	AssertNotJustifiedBy     = "not_justified_by"
	AssertJustificationCount = "justification_count"
	AssertEmpty              = "empty"
	AssertExplicit           = "explicit"
	AssertOutOfScope         = "out_of_scope"
)

// LoadScenario reads and parses a scenario YAML file.
// The rules path is resolved relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}
	if _, err := os.Stat(scenario.Rules); err != nil {
		return nil, fmt.Errorf("invalid scenario: rules directory not found: %s", scenario.Rules)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Rules == "" {
		return fmt.Errorf("rules directory is required")
	}

	if len(s.Explain) == 0 {
		return fmt.Errorf("explain list is required and must be non-empty")
	}

	if _, err := quads.Parse(strings.NewReader(s.Data)); err != nil {
		return fmt.Errorf("data: %w", err)
	}

	targets := make(map[string]bool, len(s.Explain))
	for i, step := range s.Explain {
		if step.Target == "" {
			return fmt.Errorf("explain[%d]: target is required", i)
		}
		if _, ok, err := quads.ParseLine(step.Target, i+1); err != nil {
			return fmt.Errorf("explain[%d]: %w", i, err)
		} else if !ok {
			return fmt.Errorf("explain[%d]: target is blank", i)
		}
		if step.Expect != nil && step.Expect.Count != nil && *step.Expect.Count < 0 {
			return fmt.Errorf("explain[%d].expect: count must be non-negative", i)
		}
		targets[step.Target] = true
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, targets); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, targets map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !targets[a.Target] {
		return fmt.Errorf("assertions[%d]: target %q is not explained by any step", index, a.Target)
	}

	switch a.Type {
	case AssertJustifiedBy:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for justified_by", index)
		}
	case AssertNotJustifiedBy:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for not_justified_by", index)
		}
	case AssertJustificationCount, AssertOutOfScope:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertEmpty, AssertExplicit:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// inference reports whether the scenario runs with reasoning enabled.
func (s *Scenario) inference() bool {
	return s.Inference == nil || *s.Inference
}

// policy returns the scenario's attribution policy.
func (s *Scenario) policy() config.Policy {
	if s.Policy == nil {
		return config.DefaultPolicy()
	}
	return *s.Policy
}
