package explain

import (
	"context"

	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/ir"
	"github.com/roach88/proof/internal/store"
)

// AttributionKind says which rule placed an antecedent in a context.
type AttributionKind int

const (
	// OutOfScope means no occurrence is visible from the target's context.
	OutOfScope AttributionKind = iota

	// SameContext means an occurrence lives in the target's own context.
	SameContext

	// SharedDefaultGraph means an occurrence lives in the explicit default
	// graph, which every named graph may see.
	SharedDefaultGraph

	// ImplicitOnly means every occurrence is an inference result.
	ImplicitOnly
)

func (k AttributionKind) String() string {
	switch k {
	case SameContext:
		return "same-context"
	case SharedDefaultGraph:
		return "shared-default-graph"
	case ImplicitOnly:
		return "implicit-only"
	default:
		return "out-of-scope"
	}
}

// Attribution is the context an antecedent is credited to.
type Attribution struct {
	Kind AttributionKind
	Quad ir.Quad
}

// InScope reports whether the antecedent may appear in a justification.
func (a Attribution) InScope() bool {
	return a.Kind != OutOfScope
}

// Resolver attributes antecedents to the graph a caller can see them in.
type Resolver struct {
	src    Source
	policy config.Policy
}

// NewResolver creates a resolver over src.
func NewResolver(src Source, policy config.Policy) *Resolver {
	return &Resolver{src: src, policy: policy}
}

// Resolve attributes antecedent relative to target.
//
// Every live occurrence of the antecedent triple (inferred ones included)
// is gathered together with the reported occurrence, then classified in
// order: same context as the target, the shared default graph when policy
// allows it, implicit-only, otherwise out of scope. The lookup cursor is
// closed before Resolve returns.
func (r *Resolver) Resolve(ctx context.Context, target ir.Quad, antecedent ir.Statement) (Attribution, error) {
	contexts, err := r.contexts(ctx, antecedent)
	if err != nil {
		return Attribution{}, err
	}

	triple := antecedent.Quad.Triple()
	var hasSame, hasDefault bool
	allImplicit := true
	for _, c := range contexts {
		if c == target.Context {
			hasSame = true
		}
		if c == ir.ExplicitGraph {
			hasDefault = true
		}
		if c != ir.ImplicitGraph {
			allImplicit = false
		}
	}

	switch {
	case hasSame:
		return Attribution{Kind: SameContext, Quad: triple.InContext(target.Context)}, nil
	case hasDefault && r.policy.SharedDefaultGraph:
		return Attribution{Kind: SharedDefaultGraph, Quad: triple.InContext(ir.ExplicitGraph)}, nil
	case allImplicit && len(contexts) > 0:
		return Attribution{Kind: ImplicitOnly, Quad: triple.InContext(ir.ImplicitGraph)}, nil
	default:
		return Attribution{Kind: OutOfScope, Quad: antecedent.Quad}, nil
	}
}

// contexts lists the contexts of every live occurrence of the antecedent
// triple plus the reported occurrence's own context, if it has one.
func (r *Resolver) contexts(ctx context.Context, antecedent ir.Statement) ([]ir.ID, error) {
	cur, err := r.src.Statements(ctx, antecedent.Quad.Triple(), store.LookupOptions{
		AllContexts: true,
		ExcludeMask: ir.ContextLookupMask,
	})
	if err != nil {
		return nil, newStoreError("context lookup", err)
	}
	defer cur.Close()

	var contexts []ir.ID
	if antecedent.Quad.Context != ir.NoContext {
		contexts = append(contexts, antecedent.Quad.Context)
	}
	for cur.Next() {
		contexts = append(contexts, cur.Statement().Quad.Context)
	}
	if err := cur.Err(); err != nil {
		return nil, newStoreError("context lookup", err)
	}
	return contexts, nil
}
