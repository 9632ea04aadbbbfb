package explain

import (
	"context"

	"go.uber.org/zap"

	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/logging"
	"github.com/roach88/proof/internal/store"
)

// Stats counts what happened to the rule groups a collector saw.
type Stats struct {
	Reports        int `json:"reports"`
	Groups         int `json:"groups"`
	SelfReferences int `json:"self_references"`
	OutOfScope     int `json:"out_of_scope"`
	ImplicitOnly   int `json:"implicit_only"`
	AxiomsDropped  int `json:"axioms_dropped"`
	Duplicates     int `json:"duplicates"`
	Kept           int `json:"kept"`
}

// Collector turns backend reports into justifications for one target.
// It implements infer.Reporter and is owned by a single request.
type Collector struct {
	target   ir.Quad
	resolver *Resolver
	policy   config.Policy
	set      *ir.JustificationSet
	stats    Stats
	logger   *zap.Logger
}

var _ infer.Reporter = (*Collector)(nil)

// NewCollector creates a collector for target.
func NewCollector(target ir.Quad, resolver *Resolver, policy config.Policy, logger *zap.Logger) *Collector {
	return &Collector{
		target:   target,
		resolver: resolver,
		policy:   policy,
		set:      ir.NewJustificationSet(),
		logger:   logging.OrNop(logger),
	}
}

// Report implements infer.Reporter. Each solution is one rule group; a
// group either becomes one justification or is dropped whole. Report
// always asks the backend to keep searching.
func (c *Collector) Report(ctx context.Context, rule string, solutions infer.Solutions) (bool, error) {
	if rule == "" {
		return false, newContractError(rule, "rule reported without a name", nil)
	}
	c.stats.Reports++

	for solutions.Next() {
		if err := c.collectGroup(ctx, rule, solutions.Antecedents()); err != nil {
			return false, err
		}
	}
	if err := solutions.Err(); err != nil {
		return false, newContractError(rule, "solution iteration failed", err)
	}
	return true, nil
}

// collectGroup drains one group and, if admissible, adds its justification.
func (c *Collector) collectGroup(ctx context.Context, rule string, antecedents store.Cursor) error {
	c.stats.Groups++

	group, err := store.Drain(antecedents)
	if err != nil {
		return newContractError(rule, "antecedent iteration failed", err)
	}

	for _, a := range group {
		if a.Quad.SameTriple(c.target) {
			c.stats.SelfReferences++
			c.drop(rule, "self-referential", a.Quad)
			return nil
		}
	}

	if len(group) == 0 && !c.policy.AllowAxioms {
		c.stats.AxiomsDropped++
		c.drop(rule, "axiom", ir.Quad{})
		return nil
	}

	premises := make([]ir.Quad, 0, len(group))
	seen := make(map[ir.Quad]struct{}, len(group))
	allImplicit := true
	for _, a := range group {
		att, err := c.resolver.Resolve(ctx, c.target, a)
		if err != nil {
			return err
		}
		if !att.InScope() {
			c.stats.OutOfScope++
			c.drop(rule, att.Kind.String(), a.Quad)
			return nil
		}
		if att.Kind != ImplicitOnly {
			allImplicit = false
		}
		if _, dup := seen[att.Quad]; dup {
			continue
		}
		seen[att.Quad] = struct{}{}
		premises = append(premises, att.Quad)
	}

	if len(group) > 0 && allImplicit && c.policy.RequireExplicitSupport {
		c.stats.ImplicitOnly++
		c.drop(rule, ImplicitOnly.String(), ir.Quad{})
		return nil
	}

	if !c.set.Add(ir.Justification{Rule: rule, Premises: premises}) {
		c.stats.Duplicates++
		return nil
	}
	c.stats.Kept++
	return nil
}

func (c *Collector) drop(rule, reason string, premise ir.Quad) {
	c.logger.Debug("rule group dropped",
		zap.String(logging.FieldRule, rule),
		zap.String(logging.FieldReason, reason),
		logging.Quad(logging.FieldPremise, premise))
}

// Justifications returns the collected set.
func (c *Collector) Justifications() *ir.JustificationSet {
	return c.set
}

// Stats returns the group counters.
func (c *Collector) Stats() Stats {
	return c.stats
}
