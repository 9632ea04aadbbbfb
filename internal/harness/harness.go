package harness

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/proof/internal/compiler"
	"github.com/roach88/proof/internal/explain"
	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/quads"
	"github.com/roach88/proof/internal/store"
	"github.com/roach88/proof/internal/testutil"
)

// Harness is the scenario execution environment.
// It explains targets with deterministic request IDs and tokens.
type Harness struct {
	store   *store.Memory
	session *explain.Session
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	logger *zap.Logger
}

// WithLogger routes the engine's log output to l. Scenarios are silent by
// default.
func WithLogger(l *zap.Logger) Option {
	return func(o *runOptions) { o.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store for isolation.
//
// Execution flow:
// 1. Load the scenario data into a fresh store
// 2. Compile the rules and bind them to the store
// 3. Materialize, when the scenario asks for it
// 4. Explain each target, checking its expect clause
// 5. Evaluate the assertions
//
// A non-nil error means the scenario could not run at all. Failed
// expectations are reported through Result.Pass and Result.Errors.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	h, err := setup(ctx, scenario, o.logger)
	if err != nil {
		return nil, err
	}
	defer h.session.Close()

	result := NewResult()
	for i, step := range scenario.Explain {
		outcome, err := h.explain(ctx, step.Target)
		if err != nil {
			return nil, fmt.Errorf("explain[%d]: %w", i, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
		for _, msg := range checkExpect(i, step, outcome) {
			result.AddError(msg)
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// setup seeds the store, compiles the rules and opens the session.
func setup(ctx context.Context, scenario *Scenario, logger *zap.Logger) (*Harness, error) {
	mem := store.NewMemory()

	lines, err := quads.Parse(strings.NewReader(scenario.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse data: %w", err)
	}
	if _, err := quads.Load(ctx, mem, lines); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	loaded, errs := compiler.LoadRules(scenario.Rules, compiler.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load rules from %s: %w", scenario.Rules, errs[0])
	}
	rules, err := infer.Bind(ctx, mem, loaded.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to bind rules: %w", err)
	}

	engine := infer.New(mem, rules,
		infer.WithLogger(logger),
		infer.WithInference(scenario.inference()),
	)
	if scenario.Materialize {
		if _, err := engine.Materialize(ctx); err != nil {
			return nil, fmt.Errorf("failed to materialize: %w", err)
		}
	}

	session := explain.NewSession(mem, engine,
		explain.WithPolicy(scenario.policy()),
		explain.WithLogger(logger),
		explain.WithIDAllocator(testutil.NewDeterministicIDs()),
		explain.WithTokenGenerator(testutil.NewFixedToken(scenario.Token)),
	)

	return &Harness{store: mem, session: session}, nil
}

// explain runs one target and renders its justifications. A target naming
// a term the store has never seen explains to nothing.
func (h *Harness) explain(ctx context.Context, target string) (Outcome, error) {
	line, _, err := quads.ParseLine(target, 1)
	if err != nil {
		return Outcome{}, err
	}
	q, err := quads.Resolve(ctx, h.store, line)
	if err != nil {
		return Outcome{}, err
	}

	req, err := h.session.Explain(ctx, q)
	if err != nil {
		return Outcome{}, err
	}
	defer h.session.Release(req.ID)

	outcome := Outcome{
		Target:         target,
		RequestID:      int64(req.ID),
		Token:          req.Token,
		Explicit:       req.Props.IsExplicit,
		Justifications: []JustificationView{},
		Stats:          req.Stats(),
	}

	// Walk the cursor the way a caller would: one premise per step, axioms
	// exposed as a single step without a premise.
	cur := req.Cursor()
	last := -1
	for cur.Next() {
		if j, _ := cur.Position(); j != last {
			last = j
			outcome.Justifications = append(outcome.Justifications, JustificationView{
				Rule:     cur.Rule(),
				Premises: []string{},
			})
		}
		premise, ok := cur.Premise()
		if !ok {
			continue
		}
		names, err := quads.Names(ctx, h.store, premise)
		if err != nil {
			return Outcome{}, err
		}
		view := &outcome.Justifications[len(outcome.Justifications)-1]
		view.Premises = append(view.Premises, strings.Join(names, " "))
	}
	return outcome, nil
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(index int, step Step, outcome Outcome) []string {
	if step.Expect == nil {
		return nil
	}
	var errs []string
	if want := step.Expect.Explicit; want != nil && *want != outcome.Explicit {
		errs = append(errs, fmt.Sprintf("explain[%d]: expected explicit=%t, got %t", index, *want, outcome.Explicit))
	}
	if want := step.Expect.Count; want != nil && *want != len(outcome.Justifications) {
		errs = append(errs, fmt.Sprintf("explain[%d]: expected %d justification(s), got %d", index, *want, len(outcome.Justifications)))
	}
	return errs
}
