package retrieval

import "sort"

// scoredHit is one index entry scored against a query.
type scoredHit struct {
	index int
	score float32
}

// flatIndex is a brute-force inner-product index over unit vectors.
// Immutable after construction; safe for concurrent search.
type flatIndex struct {
	dims    int
	vectors [][]float32
}

func newFlatIndex(vectors [][]float32) (*flatIndex, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyCorpus
	}
	dims := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dims {
			return nil, ErrDimensionMismatch
		}
	}
	return &flatIndex{dims: dims, vectors: vectors}, nil
}

func (idx *flatIndex) size() int {
	return len(idx.vectors)
}

// search returns the top-k entries by inner product, highest first. For
// unit vectors the inner product is the cosine similarity.
func (idx *flatIndex) search(query []float32, k int) []scoredHit {
	hits := make([]scoredHit, len(idx.vectors))
	for i, v := range idx.vectors {
		hits[i] = scoredHit{index: i, score: dotProduct(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

func dotProduct(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
