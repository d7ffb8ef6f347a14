// Package corrections maintains the curated correction map and the
// negative-example filter.
//
// The correction map is the first and highest-precedence stage of
// categorization: a hit short-circuits retrieval and disambiguation
// entirely. Lookups run through a fixed ladder — product identifier,
// exact text, substring containment, fuzzy similarity — and report which
// stage matched. The negative-example filter is the inverse signal: it
// suppresses retrieval candidates whose exact leaf a human has marked
// wrong for a matching product text.
//
// Both structures are loaded from durable storage at construction and
// refreshable on demand; the in-memory copy is the authority during a
// batch.
package corrections
