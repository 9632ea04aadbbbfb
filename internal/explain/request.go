package explain

import "github.com/roach88/proof/internal/ir"

// Request is the result of explaining one target. Its justifications are
// computed once, when the request is created, and then only read.
type Request struct {
	// ID is the request-scoped identifier the session registered it under.
	ID ir.ID

	// Token correlates the request's log lines.
	Token string

	// Target is the fact being explained, with its context defaulted.
	Target ir.Quad

	// Props is the explicit probe result. Zero for empty requests.
	Props ir.ExplicitProps

	set    *ir.JustificationSet
	cursor *Cursor
	stats  Stats
	closed bool
}

func newRequest(id ir.ID, token string, target ir.Quad) *Request {
	r := &Request{
		ID:     id,
		Token:  token,
		Target: target,
		Props:  ir.ExplicitProps{ExplicitContext: ir.ExplicitGraph},
		set:    ir.NewJustificationSet(),
	}
	r.cursor = NewCursor(nil)
	return r
}

// finish installs the collected justifications and positions the cursor.
func (r *Request) finish(set *ir.JustificationSet, stats Stats) {
	r.set = set
	r.stats = stats
	r.cursor = NewCursor(set.All())
}

// Justifications returns the distinct justifications in collection order.
// Returns an empty slice (not nil) for an empty or closed request.
func (r *Request) Justifications() []ir.Justification {
	if r.closed {
		return []ir.Justification{}
	}
	return r.set.All()
}

// Len returns the number of distinct justifications.
func (r *Request) Len() int {
	if r.closed {
		return 0
	}
	return r.set.Len()
}

// Empty reports whether the request has no justification.
func (r *Request) Empty() bool {
	return r.Len() == 0
}

// Cursor returns the request's premise cursor.
func (r *Request) Cursor() *Cursor {
	return r.cursor
}

// Stats returns the collector counters. Zero for explicit and empty requests.
func (r *Request) Stats() Stats {
	return r.stats
}

// Closed reports whether the request has been released.
func (r *Request) Closed() bool {
	return r.closed
}

// Close releases the request's state. Safe to call more than once.
func (r *Request) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.cursor.Close()
	r.set = nil
}
