// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/rules"
	"github.com/poiesic/categorit/storage"
	"github.com/poiesic/categorit/taxonomy"
)

// Diagnostics receives search-policy fallback events. diaglog.Set
// satisfies this; a nil Diagnostics is a valid no-op sink.
type Diagnostics interface {
	RecordThresholdMiss(productText string, hints []string, threshold float64)
	RecordMappingIssue(productText string, hints []string, issueType string, details map[string]any)
}

// Retriever answers constrained nearest-neighbor searches over the
// embedded candidate phrase corpus. Safe for concurrent use after
// construction.
type Retriever struct {
	phrases     []core.CandidatePhrase
	fingerprint string
	index       *flatIndex
	embedder    ai.Embedder
	mapper      *rules.ConstraintMapper
	cache       storage.VectorCacheRepository
	diag        Diagnostics
	model       string
	cfg         config
	logger      *slog.Logger
}

// NewRetriever builds the corpus, obtains its vectors (from the cache when
// the fingerprint matches, otherwise by embedding) and loads the index.
// mapper, cache and diag may be nil: no constraints, no caching, no
// diagnostics.
func NewRetriever(
	ctx context.Context,
	tax *taxonomy.Store,
	embedder ai.Embedder,
	model string,
	mapper *rules.ConstraintMapper,
	cache storage.VectorCacheRepository,
	diag Diagnostics,
	opts ...Option,
) (*Retriever, error) {
	if tax == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrTaxonomyRequired)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrEmbedderRequired)
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	cfg := config{
		constrainedThreshold:   DefaultConstrainedThreshold,
		unconstrainedThreshold: DefaultUnconstrainedThreshold,
		rawFetchSize:           DefaultRawFetchSize,
		maxCandidates:          DefaultMaxCandidates,
		padTarget:              DefaultPadTarget,
		poolSize:               poolSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	phrases := BuildCorpus(tax)
	if len(phrases) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrEmptyCorpus)
	}

	r := &Retriever{
		phrases:     phrases,
		fingerprint: Fingerprint(phrases, model),
		embedder:    embedder,
		mapper:      mapper,
		cache:       cache,
		diag:        diag,
		model:       model,
		cfg:         cfg,
		logger:      slog.Default().With("component", "retrieval"),
	}

	vectors, fromCache := r.loadCachedVectors(ctx)
	if !fromCache {
		var err error
		vectors, err = r.embedCorpus(ctx)
		if err != nil {
			return nil, err
		}
		r.writeCache(ctx, vectors)
	}

	index, err := newFlatIndex(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: building index: %w", core.ErrConfig, err)
	}
	r.index = index

	r.logger.Info("retriever ready",
		"phrases", len(phrases), "dimensions", index.dims,
		"fingerprint", r.fingerprint, "from_cache", fromCache)
	return r, nil
}

// Phrases returns the ordered candidate phrase corpus. Read-only.
func (r *Retriever) Phrases() []core.CandidatePhrase {
	return r.phrases
}

// Fingerprint returns the corpus fingerprint.
func (r *Retriever) Fingerprint() string {
	return r.fingerprint
}

// Rebuild re-embeds the corpus and rewrites the cache, replacing the
// in-memory index. Not safe to call concurrently with Search.
func (r *Retriever) Rebuild(ctx context.Context) error {
	vectors, err := r.embedCorpus(ctx)
	if err != nil {
		return err
	}
	r.writeCache(ctx, vectors)

	index, err := newFlatIndex(vectors)
	if err != nil {
		return fmt.Errorf("%w: building index: %w", core.ErrConfig, err)
	}
	r.index = index
	return nil
}

// Search embeds the product text and returns its candidate phrases under
// the threshold and fallback policy. hints are external category labels;
// when they map to taxonomy categories the search is constrained to them.
func (r *Retriever) Search(ctx context.Context, text string, hints []string) ([]core.CandidatePhrase, error) {
	embedding, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	query := NormalizeVector(embedding)

	raw := r.index.search(query, r.cfg.rawFetchSize)

	var constrained []string
	if r.mapper != nil {
		constrained = r.mapper.ConstrainCategories(hints)
	}

	if len(constrained) > 0 {
		candidates := r.constrainedSearch(raw, constrained)
		if len(candidates) > 0 {
			return candidates, nil
		}
		// Emergency fallback: the constraint categories matched nothing at
		// all, fall back to a plain unconstrained cut and flag the gap.
		r.logger.Warn("constrained search found no candidates, falling back",
			"text", text, "constraints", constrained)
		if r.diag != nil {
			r.diag.RecordMappingIssue(text, hints, "zero_candidates", nil)
		}
		return r.take(raw, r.cfg.maxCandidates), nil
	}

	return r.unconstrainedSearch(raw, text, hints), nil
}

// constrainedSearch keeps raw neighbors inside the constraint categories,
// preferring those above the constrained threshold.
func (r *Retriever) constrainedSearch(raw []scoredHit, categories []string) []core.CandidatePhrase {
	allowed := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		allowed[category] = struct{}{}
	}

	var filtered []scoredHit
	var inCategory []scoredHit
	for _, hit := range raw {
		if _, ok := allowed[r.phrases[hit.index].Category]; !ok {
			continue
		}
		inCategory = append(inCategory, hit)
		if hit.score > r.cfg.constrainedThreshold {
			filtered = append(filtered, hit)
		}
	}

	if len(filtered) == 0 {
		r.logger.Warn("no constrained candidates met threshold, using unfiltered",
			"threshold", r.cfg.constrainedThreshold, "in_category", len(inCategory))
		return r.take(inCategory, r.cfg.maxCandidates)
	}
	return r.take(filtered, r.cfg.maxCandidates)
}

// unconstrainedSearch keeps raw neighbors above the unconstrained
// threshold, padding sparse results and falling back to the raw cut when
// nothing qualifies.
func (r *Retriever) unconstrainedSearch(raw []scoredHit, text string, hints []string) []core.CandidatePhrase {
	var kept []scoredHit
	for _, hit := range raw {
		if hit.score > r.cfg.unconstrainedThreshold {
			kept = append(kept, hit)
		}
	}

	switch {
	case len(kept) == 0:
		r.logger.Warn("no candidates met threshold, using unfiltered results",
			"threshold", r.cfg.unconstrainedThreshold)
		if r.diag != nil {
			r.diag.RecordThresholdMiss(text, hints, float64(r.cfg.unconstrainedThreshold))
		}
		kept = raw
	case len(kept) < 3:
		// Too few for a meaningful frequency vote; pad from the raw order.
		seen := make(map[int]struct{}, len(kept))
		for _, hit := range kept {
			seen[hit.index] = struct{}{}
		}
		for _, hit := range raw {
			if len(kept) >= r.cfg.padTarget {
				break
			}
			if _, dup := seen[hit.index]; dup {
				continue
			}
			kept = append(kept, hit)
		}
		r.logger.Info("padded sparse candidate list", "count", len(kept))
	}

	return r.take(kept, r.cfg.maxCandidates)
}

func (r *Retriever) take(hits []scoredHit, limit int) []core.CandidatePhrase {
	if len(hits) > limit {
		hits = hits[:limit]
	}
	candidates := make([]core.CandidatePhrase, len(hits))
	for i, hit := range hits {
		candidates[i] = r.phrases[hit.index]
	}
	return candidates
}

// loadCachedVectors tries the vector cache; any failure falls back to
// re-embedding.
func (r *Retriever) loadCachedVectors(ctx context.Context) ([][]float32, bool) {
	if r.cache == nil {
		return nil, false
	}
	meta, vectors, err := r.cache.GetCorpus(ctx, r.fingerprint)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("vector cache read failed, re-embedding", "error", err)
		}
		return nil, false
	}
	r.logger.Info("loaded corpus vectors from cache",
		"model", meta.Model, "count", meta.PhraseCount, "built_at", meta.BuiltAt)
	return vectors, true
}

// writeCache persists the embedded corpus. Best-effort: failures are
// logged, never fatal.
func (r *Retriever) writeCache(ctx context.Context, vectors [][]float32) {
	if r.cache == nil || len(vectors) == 0 {
		return
	}
	meta := core.CorpusMeta{
		Fingerprint: r.fingerprint,
		Model:       r.model,
		Dimensions:  len(vectors[0]),
		PhraseCount: len(vectors),
		BuiltAt:     time.Now().UTC(),
	}
	if err := r.cache.PutCorpus(ctx, meta, vectors); err != nil {
		r.logger.Warn("vector cache write failed", "error", err)
	}
}

// embedCorpus embeds every phrase over the worker pool, writing results
// into a preallocated matrix so phrase order is preserved.
func (r *Retriever) embedCorpus(ctx context.Context) ([][]float32, error) {
	pool, err := ants.NewPool(r.cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating embedding pool: %w", err)
	}
	defer pool.Release()

	vectors := make([][]float32, len(r.phrases))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(r.phrases); start += defaultEmbedSegment {
		end := min(start+defaultEmbedSegment, len(r.phrases))
		segStart, segEnd := start, end

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, segEnd-segStart)
			for i := segStart; i < segEnd; i++ {
				texts[i-segStart] = r.phrases[i].Text
			}

			var embeddings [][]float32
			err := retryWithBackoff(ctx, func() error {
				var embedErr error
				embeddings, embedErr = r.embedder.EmbedTexts(ctx, texts)
				return embedErr
			}, defaultEmbedRetries, defaultEmbedRetryDelay)
			if err == nil && len(embeddings) != len(texts) {
				err = fmt.Errorf("%w: expected %d embeddings, got %d",
					ErrDimensionMismatch, len(texts), len(embeddings))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i, embedding := range embeddings {
				vectors[segStart+i] = NormalizeVector(embedding)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, firstErr)
	}

	r.logger.Info("corpus embedded", "phrases", len(r.phrases))
	return vectors, nil
}
