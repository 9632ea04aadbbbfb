package infer

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// Bind interns the constants of compiled rules and returns rules ready for
// an Engine. Rule order is preserved.
func Bind(ctx context.Context, in Interner, specs []ir.RuleSpec) ([]ir.Rule, error) {
	rules := make([]ir.Rule, 0, len(specs))
	for _, spec := range specs {
		premises, err := bindPatterns(ctx, in, spec.Premises)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %s premises", spec.Name)
		}
		conclusions, err := bindPatterns(ctx, in, spec.Conclusions)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %s conclusions", spec.Name)
		}
		rules = append(rules, ir.Rule{Name: spec.Name, Premises: premises, Conclusions: conclusions})
	}
	return rules, nil
}

func bindPatterns(ctx context.Context, in Interner, specs []ir.PatternSpec) ([]ir.Pattern, error) {
	out := make([]ir.Pattern, 0, len(specs))
	for _, ps := range specs {
		var terms [3]ir.Term
		for i, raw := range ps.Positions() {
			if ir.IsVariable(raw) {
				terms[i] = ir.Var(raw[len(ir.VariablePrefix):])
				continue
			}
			id, err := in.Intern(ctx, raw)
			if err != nil {
				return nil, err
			}
			terms[i] = ir.Const(id)
		}
		out = append(out, ir.Pattern{Subject: terms[0], Predicate: terms[1], Object: terms[2]})
	}
	return out, nil
}
