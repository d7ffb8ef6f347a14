// Package selection drives the generative backend through validated
// category disambiguation calls.
//
// Retrieval narrows a product to a handful of taxonomy leaves; this package
// asks the language model to pick among them. Every call constrains the
// model to an explicit candidate list, parses its response through a
// forgiving ladder (fenced code blocks, cleaned raw text, embedded JSON
// objects), validates the pick against the taxonomy, and retries a bounded
// number of times. Exhausted retries never surface as hard failures:
// each operation degrades to a deterministic fallback such as the first
// candidate or a substring match.
package selection
