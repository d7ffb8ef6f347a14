// Package analyze provides offline diagnostics over the categorization
// logs: clustering fuzzy-match near misses into curated-correction
// candidates, and converting durable failure records into review reports.
// Nothing here sits on the decision path.
package analyze
