// Package config loads the proof engine's YAML configuration.
package config

import (
	"bytes"
	"io"
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Rules   RulesConfig   `yaml:"rules"`
	Policy  Policy        `yaml:"policy"`
	Log     LogConfig     `yaml:"log"`
	Explain ExplainConfig `yaml:"explain"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// RulesConfig locates the rule definitions and switches inference on or off.
type RulesConfig struct {
	Dir       string `yaml:"dir"`
	Inference bool   `yaml:"inference"`
}

// Policy governs how antecedents are attributed and which rule groups
// survive collection.
type Policy struct {
	// SharedDefaultGraph lets an antecedent asserted in the explicit default
	// graph count as visible from any named graph.
	SharedDefaultGraph bool `yaml:"shared_default_graph"`

	// AllowAxioms keeps rule groups that report no antecedents.
	AllowAxioms bool `yaml:"allow_axioms"`

	// RequireExplicitSupport drops rule groups whose antecedents all live
	// only in the implicit graph.
	RequireExplicitSupport bool `yaml:"require_explicit_support"`

	// EquivalenceAsInferred sends an asserted fact that was produced by an
	// equivalence shortcut through the backend instead of the explicit path.
	EquivalenceAsInferred bool `yaml:"equivalence_as_inferred"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// ExplainConfig tunes batch explanation.
type ExplainConfig struct {
	Workers int `yaml:"workers"`
}

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted log encodings.
var ValidLogFormats = []string{"console", "json"}

// DefaultPolicy is the attribution policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		SharedDefaultGraph: true,
		AllowAxioms:        true,
	}
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Store:   StoreConfig{Path: "proof.db"},
		Rules:   RulesConfig{Dir: "rules", Inference: true},
		Policy:  DefaultPolicy(),
		Log:     LogConfig{Level: "info", Format: "console"},
		Explain: ExplainConfig{Workers: 4},
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if !slices.Contains(ValidLogLevels, c.Log.Level) {
		return errors.Newf("invalid log level %q: must be one of %v", c.Log.Level, ValidLogLevels)
	}
	if !slices.Contains(ValidLogFormats, c.Log.Format) {
		return errors.Newf("invalid log format %q: must be one of %v", c.Log.Format, ValidLogFormats)
	}
	if c.Explain.Workers < 1 {
		return errors.Newf("explain.workers must be at least 1, got %d", c.Explain.Workers)
	}
	return nil
}
