// Package retrieval turns the taxonomy into an embedded phrase corpus and
// answers constrained nearest-neighbor queries against it.
//
// The corpus is built deterministically from the taxonomy, embedded once
// (batched over a worker pool), L2-normalized and held in an in-process
// flat inner-product index. The embedded corpus is cached in durable
// storage under a fingerprint of the ordered phrase texts plus the
// embedding model name, so restarts skip re-embedding until the taxonomy
// or model changes.
//
// Search applies the threshold and fallback policy: category-constrained
// queries filter at 0.45 with an unfiltered constrained fallback,
// unconstrained queries filter at 0.6 with padding for sparse results and
// a raw fallback that is logged as a threshold miss.
package retrieval
