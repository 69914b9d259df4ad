// Package domain contains the core entities and business rules of the
// interview engine: guides, guide versions, question trees, sessions,
// follow-up rules, and answer review.
//
// The domain is pure Go with no infrastructure dependencies. Question
// trees are read-only content owned by a GuideVersion; all traversal
// (lookup, next-in-sequence, flattening) routes through this package so
// pre-order semantics stay consistent everywhere.
package domain
