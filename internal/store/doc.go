// Package store provides quad storage for the proof engine.
//
// Two implementations share one method set:
//   - Store: SQLite-backed, durable
//   - Memory: in-process, for tests and scenario runs
//
// # Data Model
//
// Every row is one occurrence of a (subject, predicate, object, context)
// quad plus an ir.Status bit set. Statuses merge on rewrite; deletion is a
// soft delete that sets ir.StatusDeleted. Terms are interned to positive
// IDs; the reserved graph IDs (ir.ExplicitGraph, ir.ImplicitGraph) are
// never stored in the terms table but resolve to their well-known names.
//
// # Deterministic Results
//
// Lookups always return occurrences in insertion order (ORDER BY id ASC),
// so explanations built on top of them are reproducible.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The pool holds a single connection. Close a Cursor before issuing the
// next query from the same goroutine.
package store
