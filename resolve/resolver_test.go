package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/corrections"
	"github.com/poiesic/categorit/rules"
	"github.com/poiesic/categorit/selection"
	"github.com/poiesic/categorit/storage/badger"
	"github.com/poiesic/categorit/taxonomy"
)

type fakeSearcher struct {
	candidates []core.CandidatePhrase
	err        error
	callCount  int
}

func (f *fakeSearcher) Search(ctx context.Context, text string, hints []string) ([]core.CandidatePhrase, error) {
	f.callCount++
	return f.candidates, f.err
}

type fakeDisambiguator struct {
	pair core.Pair
	typ  string

	pairCalls      int
	typeCalls      int
	determineCalls int
	lastPairs      []core.Pair
	determineErr   error
}

func (f *fakeDisambiguator) SelectPair(ctx context.Context, text string, attrs selection.Attributes, candidates []core.Pair) (core.Pair, error) {
	f.pairCalls++
	f.lastPairs = candidates
	if len(candidates) == 0 {
		return core.Pair{}, selection.ErrNoCandidates
	}
	if f.pair != (core.Pair{}) {
		return f.pair, nil
	}
	return candidates[0], nil
}

func (f *fakeDisambiguator) SelectType(ctx context.Context, text string, attrs selection.Attributes, category, subcategory string, availableTypes []string) (string, error) {
	f.typeCalls++
	if len(availableTypes) == 0 {
		return "", selection.ErrNoTypes
	}
	if f.typ != "" {
		return f.typ, nil
	}
	return availableTypes[0], nil
}

func (f *fakeDisambiguator) DetermineType(ctx context.Context, text, category, subcategory string) (string, error) {
	f.determineCalls++
	if f.determineErr != nil {
		return "", f.determineErr
	}
	return "Dairy Milk", nil
}

func resolverTaxonomy(t *testing.T) *taxonomy.Store {
	t.Helper()
	store, err := taxonomy.New([]taxonomy.Category{
		{
			Name: "Dairy & Eggs",
			Subcategories: []taxonomy.Subcategory{
				{Name: "Milk", ProductTypes: []string{"Whole Milk", "Skim Milk"}},
			},
		},
		{
			Name: "Beverages",
			Subcategories: []taxonomy.Subcategory{
				{Name: "Milk", ProductTypes: []string{"Dairy Milk", "Plant-Based Milk"}},
			},
		},
		{
			Name: "Produce",
			Subcategories: []taxonomy.Subcategory{
				{Name: "Fresh Fruits", ProductTypes: []string{"Apples", "Bananas"}},
			},
		},
		{
			Name: "Condiments",
			Subcategories: []taxonomy.Subcategory{
				{Name: "Salsa", GridOnly: true},
			},
		},
	})
	require.NoError(t, err)
	return store
}

func resolverRules(t *testing.T, tax *taxonomy.Store) *rules.Resolver {
	t.Helper()
	tables := &rules.Tables{
		Dual: map[core.Pair]rules.DualRule{
			{Category: "Dairy & Eggs", Subcategory: "Milk"}: {
				WildcardTarget: &rules.Target{Category: "Beverages", Subcategory: "Milk"},
			},
		},
	}
	return rules.NewResolver(tables, tax)
}

type resolverFixture struct {
	resolver *Resolver
	searcher *fakeSearcher
	disamb   *fakeDisambiguator
	repos    *badger.MemoryRepositories
}

func newResolverFixture(t *testing.T, candidates []core.CandidatePhrase) *resolverFixture {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	ctx := context.Background()
	corrMap, err := corrections.NewMap(ctx, repos.Corrections, nil)
	require.NoError(t, err)
	negFilter, err := corrections.NewFilter(ctx, repos.Negatives)
	require.NoError(t, err)

	tax := resolverTaxonomy(t)
	searcher := &fakeSearcher{candidates: candidates}
	disamb := &fakeDisambiguator{}

	resolver, err := NewResolver(Config{
		Corrections:   corrMap,
		Negatives:     negFilter,
		Searcher:      searcher,
		Constraints:   rules.NewConstraintMapper(rules.DefaultTables(), nil),
		Dual:          resolverRules(t, tax),
		Disambiguator: disamb,
		Taxonomy:      tax,
		Failures:      repos.Failures,
	})
	require.NoError(t, err)

	return &resolverFixture{resolver: resolver, searcher: searcher, disamb: disamb, repos: repos}
}

func fruitCandidates() []core.CandidatePhrase {
	return []core.CandidatePhrase{
		{Text: "Produce Fresh Fruits Apples", Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Apples"},
		{Text: "Produce Fresh Fruits Bananas", Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Bananas"},
		{Text: "Condiments Salsa", Category: "Condiments", Subcategory: "Salsa", ProductType: "Salsa"},
	}
}

func TestNewResolverValidation(t *testing.T) {
	_, err := NewResolver(Config{})
	assert.ErrorIs(t, err, ErrCorrectionsRequired)
}

func TestResolveCorrectionHitSkipsRetrieval(t *testing.T) {
	f := newResolverFixture(t, fruitCandidates())
	ctx := context.Background()

	err := f.resolver.corrections.Add(ctx, core.CorrectionEntry{
		Key: "acme organic apples",
		Result: core.Categorization{
			Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Apples",
		},
	})
	require.NoError(t, err)

	result := f.resolver.Resolve(ctx, core.Product{Description: "Acme Organic Apples"})
	assert.Equal(t, "Produce", result.Category)
	assert.Equal(t, "Apples", result.ProductType)
	assert.Equal(t, 0, f.searcher.callCount)
	assert.Equal(t, 0, f.disamb.pairCalls)
}

func TestResolveRetrievalPath(t *testing.T) {
	f := newResolverFixture(t, fruitCandidates())
	f.disamb.pair = core.Pair{Category: "Produce", Subcategory: "Fresh Fruits"}
	f.disamb.typ = "Bananas"

	result := f.resolver.Resolve(context.Background(), core.Product{Description: "Fresh Bananas"})
	assert.Equal(t, core.Categorization{
		Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Bananas",
	}, result)
	assert.Equal(t, 1, f.disamb.pairCalls)
	assert.Equal(t, 1, f.disamb.typeCalls)
}

func TestResolveFrequencyVotingKeepsTopPairs(t *testing.T) {
	// Fresh Fruits dominates the tally, so it must lead the pair list.
	var candidates []core.CandidatePhrase
	subs := []string{"Fresh Fruits", "Fresh Fruits", "Fresh Fruits", "Salsa", "Milk"}
	cats := []string{"Produce", "Produce", "Produce", "Condiments", "Dairy & Eggs"}
	for i := range subs {
		candidates = append(candidates, core.CandidatePhrase{
			Category: cats[i], Subcategory: subs[i], ProductType: "Apples",
		})
	}

	f := newResolverFixture(t, candidates)
	f.resolver.Resolve(context.Background(), core.Product{Description: "Something"})
	require.NotEmpty(t, f.disamb.lastPairs)
	assert.LessOrEqual(t, len(f.disamb.lastPairs), TopPairCount)
	assert.Equal(t, core.Pair{Category: "Produce", Subcategory: "Fresh Fruits"}, f.disamb.lastPairs[0])
}

func TestResolveNegativeExampleSuppression(t *testing.T) {
	f := newResolverFixture(t, fruitCandidates())
	ctx := context.Background()

	err := f.resolver.negatives.Add(ctx, "Fresh Bananas", "Produce", "Fresh Fruits", "Bananas")
	require.NoError(t, err)

	// Capture the filtered survivors through a monitor: the pair survives
	// through the Apples candidate, but the forbidden triple must not.
	var survivors []core.CandidatePhrase
	monitored, err := NewResolver(Config{
		Corrections:   f.resolver.corrections,
		Negatives:     f.resolver.negatives,
		Searcher:      f.searcher,
		Dual:          f.resolver.dual,
		Disambiguator: f.disamb,
		Taxonomy:      f.resolver.tax,
	}, WithMonitor(&captureMonitor{survivors: &survivors}))
	require.NoError(t, err)

	monitored.Resolve(ctx, core.Product{Description: "Fresh Bananas"})
	for _, candidate := range survivors {
		assert.NotEqual(t, "Bananas", candidate.ProductType)
	}
}

type captureMonitor struct {
	noopMonitor
	survivors *[]core.CandidatePhrase
}

func (c *captureMonitor) AfterFiltering(survivors []core.CandidatePhrase) {
	*c.survivors = append((*c.survivors)[:0], survivors...)
}

func TestResolveNoCandidatesYieldsSentinel(t *testing.T) {
	f := newResolverFixture(t, nil)
	ctx := context.Background()

	result := f.resolver.Resolve(ctx, core.Product{Description: "Complete Gibberish"})
	assert.True(t, result.IsSentinel())

	records, err := f.repos.Failures.GetAllFailures(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Complete Gibberish", records[0].ProductText)
	assert.Equal(t, StatePairSelection.String(), records[0].Stage)
}

func TestResolveSearchErrorYieldsSentinel(t *testing.T) {
	f := newResolverFixture(t, nil)
	f.searcher.err = errors.New("index unavailable")

	result := f.resolver.Resolve(context.Background(), core.Product{Description: "Anything"})
	assert.True(t, result.IsSentinel())

	records, err := f.repos.Failures.GetAllFailures(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StateRetrieval.String(), records[0].Stage)
}

type panickySearcher struct{}

func (panickySearcher) Search(ctx context.Context, text string, hints []string) ([]core.CandidatePhrase, error) {
	panic("index corrupted")
}

func TestResolveRecoversFromPanic(t *testing.T) {
	f := newResolverFixture(t, nil)

	resolver, err := NewResolver(Config{
		Corrections:   f.resolver.corrections,
		Negatives:     f.resolver.negatives,
		Searcher:      panickySearcher{},
		Dual:          f.resolver.dual,
		Disambiguator: f.disamb,
		Taxonomy:      f.resolver.tax,
		Failures:      f.repos.Failures,
	})
	require.NoError(t, err)

	result := resolver.Resolve(context.Background(), core.Product{Description: "Anything"})
	assert.True(t, result.IsSentinel())

	records, err := f.repos.Failures.GetAllFailures(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Reason, "panic")
}

func TestResolveGridOnlyType(t *testing.T) {
	f := newResolverFixture(t, fruitCandidates())
	f.disamb.pair = core.Pair{Category: "Condiments", Subcategory: "Salsa"}

	result := f.resolver.Resolve(context.Background(), core.Product{Description: "Hot Chunky Salsa"})
	assert.Equal(t, "Salsa", result.Subcategory)
	assert.Equal(t, "Salsa", result.ProductType)
}

func TestResolveAttachesSecondary(t *testing.T) {
	candidates := []core.CandidatePhrase{
		{Category: "Dairy & Eggs", Subcategory: "Milk", ProductType: "Whole Milk"},
	}
	f := newResolverFixture(t, candidates)
	f.disamb.typ = "Whole Milk"

	result := f.resolver.Resolve(context.Background(), core.Product{Description: "Organic Whole Milk"})
	assert.Equal(t, "Dairy & Eggs", result.Category)
	require.Len(t, result.Secondary, 1)
	assert.Equal(t, "Beverages", result.Secondary[0].Category)
	assert.Equal(t, "Dairy Milk", result.Secondary[0].ProductType)
	// Whole Milk does not exist under Beverages -> Milk, so exactly one
	// reduced type selection fills the secondary.
	assert.Equal(t, 1, f.disamb.determineCalls)
}

func TestResolveDropsSecondaryWhenTypeUndeterminable(t *testing.T) {
	candidates := []core.CandidatePhrase{
		{Category: "Dairy & Eggs", Subcategory: "Milk", ProductType: "Whole Milk"},
	}
	f := newResolverFixture(t, candidates)
	f.disamb.typ = "Whole Milk"
	f.disamb.determineErr = selection.ErrNoTypes

	result := f.resolver.Resolve(context.Background(), core.Product{Description: "Organic Whole Milk"})
	assert.Equal(t, "Dairy & Eggs", result.Category)
	assert.Empty(t, result.Secondary)
}

func TestResolveHintFilterRestrictsCandidates(t *testing.T) {
	candidates := []core.CandidatePhrase{
		{Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Apples"},
		{Category: "Dairy & Eggs", Subcategory: "Milk", ProductType: "Whole Milk"},
	}
	f := newResolverFixture(t, candidates)

	// The default external mappings send a "dairy" hint to Dairy & Eggs.
	f.resolver.Resolve(context.Background(), core.Product{
		Description:   "Horizon Organic Milk",
		CategoryHints: []string{"Dairy"},
	})
	require.Len(t, f.disamb.lastPairs, 1)
	assert.Equal(t, "Dairy & Eggs", f.disamb.lastPairs[0].Category)
}

func TestResolveBatch(t *testing.T) {
	f := newResolverFixture(t, fruitCandidates())
	f.disamb.pair = core.Pair{Category: "Produce", Subcategory: "Fresh Fruits"}
	f.disamb.typ = "Apples"

	products := []core.Product{
		{Description: "Gala Apples"},
		{Description: "Fuji Apples"},
		{Description: "Honeycrisp Apples"},
	}

	results := f.resolver.ResolveBatch(context.Background(), products,
		WithGroupSize(2), WithPause(0))
	require.Len(t, results, 3)
	for i, result := range results {
		assert.Equal(t, products[i].Description, result.Product.Description)
		assert.Equal(t, "Apples", result.Result.ProductType)
	}
}

func TestResolveBatchIsolatesFailures(t *testing.T) {
	f := newResolverFixture(t, fruitCandidates())
	f.disamb.pair = core.Pair{Category: "Produce", Subcategory: "Fresh Fruits"}
	f.disamb.typ = "Apples"

	calls := 0
	f.searcher.candidates = nil
	searcher := &flakySearcher{good: fruitCandidates(), failOn: 2, calls: &calls}
	resolver, err := NewResolver(Config{
		Corrections:   f.resolver.corrections,
		Negatives:     f.resolver.negatives,
		Searcher:      searcher,
		Dual:          f.resolver.dual,
		Disambiguator: f.disamb,
		Taxonomy:      f.resolver.tax,
	})
	require.NoError(t, err)

	results := resolver.ResolveBatch(context.Background(), []core.Product{
		{Description: "Gala Apples"},
		{Description: "Broken Item"},
		{Description: "Fuji Apples"},
	}, WithPause(0))

	require.Len(t, results, 3)
	assert.False(t, results[0].Result.IsSentinel())
	assert.True(t, results[1].Result.IsSentinel())
	assert.False(t, results[2].Result.IsSentinel())
}

type flakySearcher struct {
	good   []core.CandidatePhrase
	failOn int
	calls  *int
}

func (f *flakySearcher) Search(ctx context.Context, text string, hints []string) ([]core.CandidatePhrase, error) {
	*f.calls++
	if *f.calls == f.failOn {
		return nil, errors.New("transient failure")
	}
	return f.good, nil
}
