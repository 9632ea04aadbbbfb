package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MaterializeResult summarises a materialize run.
type MaterializeResult struct {
	Rules int `json:"rules"`
	Added int `json:"added"`
	Total int `json:"total"`
}

// WriteText implements TextWriter.
func (r MaterializeResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Inferred %d new statement(s) from %d rule(s); store holds %d\n", r.Added, r.Rules, r.Total)
	return err
}

// MaterializeOptions holds flags for the materialize command.
type MaterializeOptions struct {
	*RootOptions
	RulesDir string
}

// NewMaterializeCommand creates the materialize command.
func NewMaterializeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MaterializeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Run the reference reasoner to fixpoint",
		Long: `Apply the rules to the store until nothing new can be derived.

Derived statements are written to the implicit graph with the inferred
status, where explain attributes them as implicit antecedents.

Example:
  proof materialize --db ./proof.db --rules ./rules`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialize(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "directory of CUE rules (overrides rules.dir)")
	return cmd
}

func runMaterialize(opts *MaterializeOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	e, err := openEnv(opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	engine, _, err := e.reasoner(ctx, e.rulesDir(opts.RulesDir))
	if err != nil {
		return err
	}

	added, err := engine.Materialize(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "materialization failed", err)
	}
	total, err := e.store.Count(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count statements", err)
	}
	e.logger.Info("materialized", zap.Int("added", added), zap.Int("total", total))

	return formatter.Success(MaterializeResult{Rules: len(engine.Rules()), Added: added, Total: total})
}
