package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/proof/internal/compiler"
	"github.com/roach88/proof/internal/ir"
)

// RulesCheckResult holds the outcome of rules check.
type RulesCheckResult struct {
	Valid       bool                    `json:"valid"`
	Dir         string                  `json:"dir"`
	FileCount   int                     `json:"file_count"`
	Rules       []string                `json:"rules"`
	Fingerprint string                  `json:"fingerprint,omitempty"`
	Errors      []RuleProblem           `json:"errors,omitempty"`
	Cycles      []compiler.CycleWarning `json:"cycles,omitempty"`
}

// RuleProblem is one load, compile or validation error.
type RuleProblem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// WriteText implements TextWriter.
func (r RulesCheckResult) WriteText(w io.Writer) error {
	for _, p := range r.Errors {
		loc := ""
		if p.File != "" {
			loc = fmt.Sprintf("%s:%d: ", p.File, p.Line)
		}
		fmt.Fprintf(w, "  ✗ %s[%s] %s\n", loc, p.Code, p.Message)
	}
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "  %s: %s\n", c.Level, c.Message)
	}
	if !r.Valid {
		_, err := fmt.Fprintf(w, "%d error(s) in %s\n", len(r.Errors), r.Dir)
		return err
	}
	if _, err := fmt.Fprintf(w, "✓ %d rule(s) in %d file(s) are valid\n", len(r.Rules), r.FileCount); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  fingerprint %s\n", r.Fingerprint)
	return err
}

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Work with CUE rule definitions",
	}
	cmd.AddCommand(newRulesCheckCommand(rootOpts))
	return cmd
}

func newRulesCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <rules-dir>",
		Short: "Compile and validate rules",
		Long: `Compile the CUE rule definitions in a directory and report every error.

Also reports recursion between rules. Recursion is not an error, but a
recursive rule can support a fact through the fact itself.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesCheck(rootOpts, args[0], cmd)
		},
	}
}

func runRulesCheck(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, errs := compiler.LoadRules(dir, compiler.LoadModeCollectAll)
	result := RulesCheckResult{Dir: dir, Rules: []string{}}
	if loaded != nil {
		result.FileCount = loaded.FileCount
		for _, r := range loaded.Rules {
			result.Rules = append(result.Rules, r.Name)
		}
		result.Cycles = compiler.AnalyzeCycles(loaded.Rules)
	}
	for _, err := range errs {
		result.Errors = append(result.Errors, toRuleProblem(err))
	}
	result.Valid = len(result.Errors) == 0
	if result.Valid && loaded != nil {
		fp, err := ir.RuleSetHash(loaded.Rules)
		if err != nil {
			return WrapExitError(ExitFailure, "rules check failed", err)
		}
		result.Fingerprint = fp
	}

	formatter.VerboseLog("Checked %d file(s) in %s", result.FileCount, dir)

	if !result.Valid {
		if err := formatter.Error("E100", fmt.Sprintf("rules in %s are invalid", dir), result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "rules check failed")
	}
	return formatter.Success(result)
}

func toRuleProblem(err error) RuleProblem {
	var loadErr *compiler.LoadError
	if errors.As(err, &loadErr) {
		p := RuleProblem{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			p.File = loadErr.Pos.Filename()
			p.Line = loadErr.Pos.Line()
		}
		return p
	}
	var verr compiler.ValidationError
	if errors.As(err, &verr) {
		msg := verr.Field + ": " + verr.Message
		if verr.Rule != "" {
			msg = verr.Rule + ": " + msg
		}
		return RuleProblem{Code: verr.Code, Message: msg}
	}
	return RuleProblem{Code: compiler.ErrCodeGeneric, Message: err.Error()}
}
