package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/proof/internal/compiler"
	"github.com/roach88/proof/internal/explain"
	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/quads"
)

// ExplainResult is the rendered outcome of one explanation.
type ExplainResult struct {
	Target         string              `json:"target"`
	RequestID      int64               `json:"request_id"`
	Token          string              `json:"token"`
	Explicit       bool                `json:"explicit"`
	Justifications []JustificationView `json:"justifications"`
	Stats          explain.Stats       `json:"stats"`
}

// JustificationView is a justification with its terms resolved.
type JustificationView struct {
	Rule     string   `json:"rule"`
	Premises []string `json:"premises"`
}

// WriteText implements TextWriter.
func (r ExplainResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "%s\n", r.Target)
	if len(r.Justifications) == 0 {
		_, err := fmt.Fprintln(w, "  no justification")
		return err
	}
	for i, j := range r.Justifications {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, j.Rule)
		if len(j.Premises) == 0 {
			fmt.Fprintln(w, "      (axiom)")
		}
		for _, p := range j.Premises {
			fmt.Fprintf(w, "      %s\n", p)
		}
	}
	return nil
}

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	RulesDir string
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <subject> <predicate> <object> [graph]",
		Short: "Explain why a triple holds",
		Long: `List every justification of a triple: the rule that derives it and the
antecedent quads the rule fired on, each attributed to a graph.

Terms are IRIs (bare or in angle brackets) or "quoted literals". Without a
graph the triple is explained from the explicit default graph. An asserted
triple is justified by the "explicit" rule alone.

Example:
  proof explain --db ./proof.db --rules ./rules urn:Lassie rdf:type urn:Mammal
  proof explain --rules ./rules urn:Mary urn:hasChild urn:John urn:family`,
		Args:          cobra.RangeArgs(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesDir, "rules", "", "directory of CUE rules (overrides rules.dir)")
	return cmd
}

func runExplain(opts *ExplainOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	e, err := openEnv(opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	session, prefixes, err := e.session(ctx, opts.RulesDir)
	if err != nil {
		return err
	}
	defer session.Close()

	target, err := parseTarget(args, prefixes)
	if err != nil {
		_ = formatter.Error("E010", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid target", err)
	}

	result, err := explainLine(ctx, e, session, target)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "explain failed", err)
	}
	return formatter.Success(result)
}

// session builds an explain session over the env's store and reasoner.
func (e *env) session(ctx context.Context, rulesFlag string) (*explain.Session, compiler.Prefixes, error) {
	engine, prefixes, err := e.reasoner(ctx, e.rulesDir(rulesFlag))
	if err != nil {
		return nil, nil, err
	}
	return e.newSession(engine), prefixes, nil
}

// newSession opens a session over the store with the configured policy.
func (e *env) newSession(backend infer.Backend) *explain.Session {
	opts := []explain.Option{
		explain.WithPolicy(e.cfg.Policy),
		explain.WithLogger(e.logger),
	}
	if e.tokens != nil {
		opts = append(opts, explain.WithTokenGenerator(e.tokens))
	}
	return explain.NewSession(e.store, backend, opts...)
}

// explainLine explains one target and renders the result. The request is
// released before returning.
func explainLine(ctx context.Context, e *env, session *explain.Session, target quads.Line) (ExplainResult, error) {
	q, err := quads.Resolve(ctx, e.store, target)
	if err != nil {
		return ExplainResult{}, err
	}

	req, err := session.Explain(ctx, q)
	if err != nil {
		return ExplainResult{}, err
	}
	defer session.Release(req.ID)

	result := ExplainResult{
		Target:         strings.TrimSuffix(target.String(), " ."),
		RequestID:      int64(req.ID),
		Token:          req.Token,
		Explicit:       req.Props.IsExplicit,
		Justifications: []JustificationView{},
		Stats:          req.Stats(),
	}

	cur := req.Cursor()
	last := -1
	for cur.Next() {
		if j, _ := cur.Position(); j != last {
			last = j
			result.Justifications = append(result.Justifications, JustificationView{
				Rule:     cur.Rule(),
				Premises: []string{},
			})
		}
		premise, ok := cur.Premise()
		if !ok {
			continue
		}
		names, err := quads.Names(ctx, e.store, premise)
		if err != nil {
			return ExplainResult{}, err
		}
		view := &result.Justifications[len(result.Justifications)-1]
		view.Premises = append(view.Premises, strings.Join(names, " "))
	}
	return result, nil
}

// parseTarget turns positional arguments into a target line. Bare terms
// expand through the rule prefixes, so rdf:type works when the rules
// declare rdf.
func parseTarget(args []string, prefixes compiler.Prefixes) (quads.Line, error) {
	terms := make([]string, len(args))
	for i, arg := range args {
		term, err := quads.ParseTerm(arg)
		if err != nil {
			return quads.Line{}, errors.Wrapf(err, "argument %d", i+1)
		}
		if bare := strings.TrimSpace(arg); bare[0] != '<' && bare[0] != '"' {
			term = prefixes.Expand(term)
		}
		terms[i] = term
	}
	line := quads.Line{Subject: terms[0], Predicate: terms[1], Object: terms[2]}
	if len(terms) == 4 {
		line.Graph = terms[3]
	}
	return line, nil
}

// errorCode maps an explain failure onto its error code.
func errorCode(err error) string {
	var ee *explain.ExplainError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return "E001"
}
