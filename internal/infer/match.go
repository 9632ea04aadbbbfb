package infer

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/store"
)

// binding maps variable names to term IDs.
type binding map[string]ir.ID

func (b binding) clone() binding {
	out := make(binding, len(b)+3)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// resolve returns the ID a term stands for under b, or 0 for an unbound
// variable. Zero is the lookup wildcard.
func (b binding) resolve(t ir.Term) ir.ID {
	if t.IsVar() {
		return b[t.Var]
	}
	return t.Const
}

// instantiate fills a pattern from b. Unbound positions come back as 0.
func (b binding) instantiate(p ir.Pattern) ir.Quad {
	return ir.NewQuad(b.resolve(p.Subject), b.resolve(p.Predicate), b.resolve(p.Object), ir.NoContext)
}

// unify extends b so that p matches q. It returns false when a constant or
// an already bound variable disagrees with q.
func unify(p ir.Pattern, q ir.Quad, b binding) (binding, bool) {
	out := b.clone()
	values := [3]ir.ID{q.Subject, q.Predicate, q.Object}
	for i, term := range p.Terms() {
		if !term.IsVar() {
			if term.Const != values[i] {
				return nil, false
			}
			continue
		}
		if bound, ok := out[term.Var]; ok {
			if bound != values[i] {
				return nil, false
			}
			continue
		}
		out[term.Var] = values[i]
	}
	return out, true
}

// solution is one way a rule's premises were satisfied: the final binding
// and the occurrences each premise matched, in premise order.
type solution struct {
	binding binding
	matched []ir.Statement
}

// solve enumerates every way premises can be matched against visible
// statements, starting from b. Each lookup is drained and closed before the
// next one starts.
func (e *Engine) solve(ctx context.Context, premises []ir.Pattern, b binding) ([]solution, error) {
	if len(premises) == 0 {
		return []solution{{binding: b}}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	first := premises[0]
	cur, err := e.src.Statements(ctx, b.instantiate(first), store.LookupOptions{
		AllContexts: true,
		ExcludeMask: ir.StatusDeleted,
	})
	if err != nil {
		return nil, errors.Wrap(err, "match premise")
	}
	candidates, err := store.Drain(cur)
	if err != nil {
		return nil, errors.Wrap(err, "match premise")
	}

	var out []solution
	for _, st := range candidates {
		next, ok := unify(first, st.Quad, b)
		if !ok {
			continue
		}
		rest, err := e.solve(ctx, premises[1:], next)
		if err != nil {
			return nil, err
		}
		for _, r := range rest {
			matched := make([]ir.Statement, 0, len(premises))
			matched = append(matched, st)
			matched = append(matched, r.matched...)
			out = append(out, solution{binding: r.binding, matched: matched})
		}
	}
	return out, nil
}

// groupKey identifies an antecedent group by the quads it matched.
func groupKey(group []ir.Statement) string {
	var sb strings.Builder
	for _, st := range group {
		for _, v := range st.Quad.Values() {
			sb.WriteString(strconv.FormatInt(int64(v), 10))
			sb.WriteByte(',')
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
