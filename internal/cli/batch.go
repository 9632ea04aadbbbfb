package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/logging"
	"github.com/roach88/proof/internal/quads"
)

// BatchItem is the outcome for one target of a batch.
type BatchItem struct {
	Line   int            `json:"line"`
	Result *ExplainResult `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
	Code   string         `json:"code,omitempty"`
}

// BatchResult summarises a batch run. Items keep input order.
type BatchResult struct {
	Targets   int         `json:"targets"`
	Explained int         `json:"explained"`
	Empty     int         `json:"empty"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

// WriteText implements TextWriter.
func (r BatchResult) WriteText(w io.Writer) error {
	for _, item := range r.Items {
		if item.Error != "" {
			fmt.Fprintf(w, "line %d: ✗ [%s] %s\n", item.Line, item.Code, item.Error)
			continue
		}
		if err := item.Result.WriteText(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d target(s): %d explained, %d empty, %d failed\n",
		r.Targets, r.Explained, r.Empty, r.Failed)
	return err
}

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	RulesDir string
	Workers  int
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <targets-file>",
		Short: "Explain many targets concurrently",
		Long: `Explain every target listed in a file, one quad per line in the load
format. Targets are explained concurrently, each in its own session, with
at most explain.workers in flight. A failed target does not stop the others.

Example:
  proof batch --db ./proof.db --rules ./rules --workers 8 targets.nq`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "directory of CUE rules (overrides rules.dir)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent explanations (overrides explain.workers)")
	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	targets, err := readQuadFile(path)
	if err != nil {
		_ = formatter.Error("E010", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read targets", err)
	}

	e, err := openEnv(opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	engine, _, err := e.reasoner(ctx, e.rulesDir(opts.RulesDir))
	if err != nil {
		return err
	}

	workers := e.cfg.Explain.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	formatter.VerboseLog("Explaining %d target(s) with %d worker(s)", len(targets), workers)

	items := make([]BatchItem, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, target := range targets {
		i, target := i, target // per-iteration copies (go < 1.22 loop semantics)
		g.Go(func() error {
			items[i] = explainOne(gctx, e, engine, target)
			// Only cancellation stops the batch; per-target failures are reported.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitCommandError, "batch interrupted", err)
	}

	result := BatchResult{Targets: len(targets), Items: items}
	for _, item := range items {
		switch {
		case item.Error != "":
			result.Failed++
		case len(item.Result.Justifications) == 0:
			result.Empty++
		default:
			result.Explained++
		}
	}
	e.logger.Info("batch finished",
		zap.Int(logging.FieldCount, result.Targets),
		zap.Int("explained", result.Explained),
		zap.Int("empty", result.Empty),
		zap.Int("failed", result.Failed))

	if err := formatter.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d target(s) failed", result.Failed))
	}
	return nil
}

// explainOne explains target in a session of its own.
func explainOne(ctx context.Context, e *env, backend infer.Backend, target quads.Line) BatchItem {
	session := e.newSession(backend)
	defer session.Close()

	item := BatchItem{Line: target.Num}
	result, err := explainLine(ctx, e, session, target)
	if err != nil {
		item.Error = err.Error()
		item.Code = errorCode(err)
		return item
	}
	item.Result = &result
	return item
}
