package testutil

import (
	"sync"

	"github.com/roach88/proof/internal/ir"
)

// DeterministicIDs hands out request identifiers the same way the engine
// does, counting down from ir.RequestIDBase, but can be reset so a scenario
// re-run produces identical IDs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicIDs creates an allocator whose first ID is ir.RequestIDBase.
func NewDeterministicIDs() *DeterministicIDs {
	return &DeterministicIDs{}
}

// Allocate returns the next request identifier.
func (d *DeterministicIDs) Allocate() ir.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := ir.RequestIDBase - ir.ID(d.seq)
	d.seq++
	return id
}

// Issued returns how many identifiers have been handed out since the last
// reset.
func (d *DeterministicIDs) Issued() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Reset rewinds the allocator. After Reset, Allocate returns
// ir.RequestIDBase again.
func (d *DeterministicIDs) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq = 0
}
