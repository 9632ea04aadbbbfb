package infer

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/logging"
	"github.com/roach88/proof/internal/store"
)

// DefaultMaxRounds bounds forward chaining in Materialize.
const DefaultMaxRounds = 64

// Engine is a small rule-matching reasoner over a quad store. It answers
// support checks by unifying rule conclusions with the target and
// enumerating premise matches, and can forward-chain rules to a fixpoint.
type Engine struct {
	src       Source
	rules     []ir.Rule
	enabled   bool
	maxRounds int
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.Component(l, "infer")
	}
}

// WithInference switches inference on or off. A disabled engine still
// answers InferenceEnabled but is never asked for support.
func WithInference(enabled bool) Option {
	return func(e *Engine) {
		e.enabled = enabled
	}
}

// WithMaxRounds bounds the number of forward-chaining rounds.
func WithMaxRounds(n int) Option {
	return func(e *Engine) {
		e.maxRounds = n
	}
}

// New creates an engine over src with the given rules, evaluated in order.
func New(src Source, rules []ir.Rule, opts ...Option) *Engine {
	e := &Engine{
		src:       src,
		rules:     rules,
		enabled:   true,
		maxRounds: DefaultMaxRounds,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InferenceEnabled implements Backend.
func (e *Engine) InferenceEnabled() bool {
	return e.enabled
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []ir.Rule {
	return e.rules
}

// IsSupported implements Backend. Every rule with a conclusion that unifies
// with the target is reported once, with one solution per distinct set of
// matched occurrences. Rules without matches are not reported.
func (e *Engine) IsSupported(ctx context.Context, subject, predicate, object ir.ID, r Reporter) error {
	target := ir.NewQuad(subject, predicate, object, ir.NoContext)

	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return err
		}

		groups, err := e.support(ctx, rule, target)
		if err != nil {
			return errors.Wrapf(err, "rule %s", rule.Name)
		}
		if len(groups) == 0 {
			continue
		}

		e.logger.Debug("rule supports target",
			zap.String(logging.FieldRule, rule.Name),
			zap.Int(logging.FieldCount, len(groups)),
			logging.Quad(logging.FieldTarget, target))

		more, err := r.Report(ctx, rule.Name, NewSolutions(groups...))
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// support collects the distinct antecedent groups through which rule
// concludes target.
func (e *Engine) support(ctx context.Context, rule ir.Rule, target ir.Quad) ([][]ir.Statement, error) {
	var groups [][]ir.Statement
	seen := make(map[string]struct{})

	for _, conclusion := range rule.Conclusions {
		b, ok := unify(conclusion, target, binding{})
		if !ok {
			continue
		}
		sols, err := e.solve(ctx, rule.Premises, b)
		if err != nil {
			return nil, err
		}
		for _, sol := range sols {
			key := groupKey(sol.matched)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			groups = append(groups, sol.matched)
		}
	}
	return groups, nil
}

// Materialize forward-chains the rules until no new fact appears and
// returns the number of facts added. New facts go to ir.ImplicitGraph with
// ir.StatusInferred. A triple that already exists in any graph is not
// added again.
func (e *Engine) Materialize(ctx context.Context) (int, error) {
	total := 0
	for round := 1; round <= e.maxRounds; round++ {
		added, err := e.materializeRound(ctx)
		if err != nil {
			return total, err
		}
		total += added

		e.logger.Debug("materialize round",
			zap.Int("round", round),
			zap.Int(logging.FieldCount, added))

		if added == 0 {
			e.logger.Info("materialized", zap.Int(logging.FieldCount, total))
			return total, nil
		}
	}
	return total, errors.Newf("materialize: no fixpoint after %d rounds", e.maxRounds)
}

func (e *Engine) materializeRound(ctx context.Context) (int, error) {
	var pending []ir.Quad
	queued := make(map[ir.Quad]struct{})

	for _, rule := range e.rules {
		sols, err := e.solve(ctx, rule.Premises, binding{})
		if err != nil {
			return 0, errors.Wrapf(err, "rule %s", rule.Name)
		}
		for _, sol := range sols {
			for _, conclusion := range rule.Conclusions {
				q := sol.binding.instantiate(conclusion)
				if !q.Valid() {
					continue
				}
				if _, ok := queued[q]; ok {
					continue
				}
				queued[q] = struct{}{}
				pending = append(pending, q)
			}
		}
	}

	added := 0
	for _, q := range pending {
		exists, err := e.exists(ctx, q)
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		st := ir.Statement{Quad: q.InContext(ir.ImplicitGraph), Status: ir.StatusInferred}
		if err := e.src.Put(ctx, st); err != nil {
			return added, errors.Wrap(err, "materialize")
		}
		added++
	}
	return added, nil
}

func (e *Engine) exists(ctx context.Context, q ir.Quad) (bool, error) {
	cur, err := e.src.Statements(ctx, q, store.LookupOptions{AllContexts: true, ExcludeMask: ir.StatusDeleted})
	if err != nil {
		return false, errors.Wrap(err, "materialize")
	}
	found, err := store.Drain(cur)
	if err != nil {
		return false, errors.Wrap(err, "materialize")
	}
	return len(found) > 0, nil
}
