package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/proof/internal/quads"
)

// LoadResult summarises a load run.
type LoadResult struct {
	Files      []string `json:"files"`
	Statements int      `json:"statements"`
	Total      int      `json:"total"`
}

// WriteText implements TextWriter.
func (r LoadResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Loaded %d statement(s) from %d file(s); store holds %d\n",
		r.Statements, len(r.Files), r.Total)
	return err
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file>...",
		Short: "Load quads into the store",
		Long: `Load quads from line-oriented files as asserted statements.

Each line is "<s> <p> <o> [<g>] ." where the object may be a "literal".
Lines without a graph go to the explicit default graph. Lines addressed to
<http://www.ontotext.com/implicit> are stored as inferred.

Example:
  proof load --db ./proof.db family.nq`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runLoad(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	// Parse everything first so a syntax error leaves the store untouched.
	var all []quads.Line
	for _, path := range files {
		lines, err := readQuadFile(path)
		if err != nil {
			_ = formatter.Error("E010", err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read quads", err)
		}
		formatter.VerboseLog("Parsed %d quad(s) from %s", len(lines), path)
		all = append(all, lines...)
	}

	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.close()

	n, err := quads.Load(ctx, e.store, all)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write quads", err)
	}
	total, err := e.store.Count(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count statements", err)
	}
	e.logger.Info("quads loaded", zap.Int("count", n), zap.Strings("files", files))

	return formatter.Success(LoadResult{Files: files, Statements: n, Total: total})
}

func readQuadFile(path string) ([]quads.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := quads.Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return lines, nil
}
