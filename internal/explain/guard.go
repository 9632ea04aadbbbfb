package explain

import (
	"context"

	"github.com/roach88/proof/internal/ir"
)

// A backend is free to call back into the session it is serving, for
// example to explain an antecedent. Explaining a target that is already
// being explained further up the same call chain would recurse without
// end, so the inner request comes back empty instead.
//
// The chain travels in the context, so unrelated concurrent requests for
// the same target do not see each other.

type activeKey struct{}

// activeChain is an immutable linked list of targets in progress.
type activeChain struct {
	target ir.Quad
	parent *activeChain
}

// withActive returns a context that records target as in progress.
func withActive(ctx context.Context, target ir.Quad) context.Context {
	parent, _ := ctx.Value(activeKey{}).(*activeChain)
	return context.WithValue(ctx, activeKey{}, &activeChain{target: target, parent: parent})
}

// isActive reports whether target is in progress in ctx's call chain.
func isActive(ctx context.Context, target ir.Quad) bool {
	for c, _ := ctx.Value(activeKey{}).(*activeChain); c != nil; c = c.parent {
		if c.target == target {
			return true
		}
	}
	return false
}

// depth returns the number of targets in progress in ctx's call chain.
func depth(ctx context.Context) int {
	n := 0
	for c, _ := ctx.Value(activeKey{}).(*activeChain); c != nil; c = c.parent {
		n++
	}
	return n
}
