// Package ir provides the shared data model of the proof engine.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Quad identity is (subject, predicate, object, context); status bits
//     travel beside a quad in a Statement and never take part in equality
//   - Justification identity is the rule name plus the premise set, hashed
//     over RFC 8785 canonical JSON with domain separation
//   - Reserved graph IDs are negative; interned term IDs are positive
//   - All JSON tags use snake_case
package ir
