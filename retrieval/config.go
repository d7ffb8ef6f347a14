package retrieval

import "time"

// Search policy constants. Configurable through options, never re-derived.
const (
	// DefaultConstrainedThreshold is the minimum similarity for candidates
	// in a category-constrained search.
	DefaultConstrainedThreshold = float32(0.45)

	// DefaultUnconstrainedThreshold is the minimum similarity for
	// candidates in an unconstrained search.
	DefaultUnconstrainedThreshold = float32(0.6)

	// DefaultRawFetchSize is how many raw neighbors are fetched before
	// filtering.
	DefaultRawFetchSize = 250

	// DefaultMaxCandidates caps the candidate list returned by Search.
	DefaultMaxCandidates = 35

	// DefaultPadTarget is the list size sparse unconstrained results are
	// padded up to.
	DefaultPadTarget = 10

	// defaultEmbedSegment is how many phrases one worker-pool task embeds.
	defaultEmbedSegment = 32

	// Embedding retry policy for corpus construction.
	defaultEmbedRetries    = 3
	defaultEmbedRetryDelay = 500 * time.Millisecond
)

type config struct {
	constrainedThreshold   float32
	unconstrainedThreshold float32
	rawFetchSize           int
	maxCandidates          int
	padTarget              int
	poolSize               int
}

// Option configures a Retriever.
type Option func(*config)

// WithThresholds overrides the constrained and unconstrained similarity
// thresholds.
func WithThresholds(constrained, unconstrained float32) Option {
	return func(c *config) {
		c.constrainedThreshold = constrained
		c.unconstrainedThreshold = unconstrained
	}
}

// WithCandidateLimits overrides the raw fetch size, the candidate cap and
// the sparse-result pad target.
func WithCandidateLimits(rawFetch, maxCandidates, padTarget int) Option {
	return func(c *config) {
		if rawFetch > 0 {
			c.rawFetchSize = rawFetch
		}
		if maxCandidates > 0 {
			c.maxCandidates = maxCandidates
		}
		if padTarget > 0 {
			c.padTarget = padTarget
		}
	}
}

// WithPoolSize sets the worker pool size for corpus embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *config) {
		if size >= 1 {
			c.poolSize = size
		}
	}
}
