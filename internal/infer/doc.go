// Package infer defines the contract between the explanation engine and an
// inference backend, and ships a reference backend.
//
// The contract is callback shaped: the engine hands the backend a Reporter,
// and the backend calls Report once per rule that can conclude the target,
// passing every antecedent group for that rule as Solutions.
//
// Engine is the reference backend. It is a naive rule matcher: premises are
// joined left to right with one store lookup per step, and every lookup is
// drained before the next begins. That keeps it safe on a single-connection
// SQLite store. It is not meant to be fast.
package infer
