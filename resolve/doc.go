// Package resolve runs the per-product categorization state machine.
//
// A resolution walks a strict precedence order: curated corrections first
// (product id, exact text, substring, fuzzy), then constrained semantic
// retrieval, pair-frequency voting with negative-example suppression, a
// generative pair selection, a generative type selection, and finally the
// dual-category rules. The Resolve operation is total: every input yields a
// structurally valid Categorization or the sentinel, never an error. A
// deferred recover at the pipeline boundary converts panics into the same
// critical-failure path that appends a durable failure record.
package resolve
