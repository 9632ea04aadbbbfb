// Package explain computes why a fact holds.
//
// Given a target quad, a Session first probes the store for an asserted
// occurrence. An asserted fact is its own justification ("explicit"). For
// anything else the session asks the inference backend which rules support
// the fact, and a Collector turns every reported rule group into a
// justification: the rule name plus the premises it fired on, each premise
// attributed to a graph the caller can see.
//
// Attribution order for a premise:
//  1. the target's own context
//  2. the shared explicit graph, when Policy.SharedDefaultGraph is set
//  3. the implicit graph, when every occurrence is inferred
//
// A premise that fits none of these is out of scope and rejects its whole
// group. So does a premise equal to the target itself.
//
// The justification set is computed in full before the request is returned.
// A Cursor then flattens it into one premise at a time, which is how the
// rule/subject/predicate/object/context accessors on Session read it.
//
// The store is only ever read. Every lookup cursor is closed before the next
// lookup is opened, so a single-connection SQLite store is enough.
package explain
