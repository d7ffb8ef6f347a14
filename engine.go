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


package categorit

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/ai/openai"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/corrections"
	"github.com/poiesic/categorit/diaglog"
	"github.com/poiesic/categorit/resolve"
	"github.com/poiesic/categorit/retrieval"
	"github.com/poiesic/categorit/rules"
	"github.com/poiesic/categorit/selection"
	"github.com/poiesic/categorit/storage"
	"github.com/poiesic/categorit/storage/badger"
	"github.com/poiesic/categorit/taxonomy"
)

// Engine is the assembled categorization system: durable storage, the
// curated correction map, the embedded retrieval index and the generative
// resolution pipeline, ready to categorize products.
type Engine struct {
	backend     *badger.Backend
	corrRepo    storage.CorrectionRepository
	negRepo     storage.NegativeExampleRepository
	cacheRepo   storage.VectorCacheRepository
	failRepo    storage.FailureRepository
	provider    ai.Provider
	tax         *taxonomy.Store
	corrections *corrections.Map
	negatives   *corrections.Filter
	retriever   *retrieval.Retriever
	resolver    *resolve.Resolver
	diag        *diaglog.Set
	batchOpts   []resolve.BatchOption
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	taxonomyPath string
	rulesPath    string
	logDir       string
	monitor      resolve.Monitor
	batchOpts    []resolve.BatchOption
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider installs an existing AI provider instead of constructing
// one from the AI configuration. The engine takes ownership and closes it.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithRules loads dual-category and constraint tables from a YAML file
// instead of the built-in defaults.
func WithRules(path string) EngineOption {
	return func(o *engineOptions) {
		o.rulesPath = path
	}
}

// WithLogDir sets the diagnostic log directory. Defaults to a "logs"
// directory under the data directory.
func WithLogDir(dir string) EngineOption {
	return func(o *engineOptions) {
		if dir != "" {
			o.logDir = dir
		}
	}
}

// WithEngineMonitor installs resolution hooks on the pipeline.
func WithEngineMonitor(monitor resolve.Monitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = monitor
	}
}

// WithBatchGroupSize sets how many products each batch group holds.
func WithBatchGroupSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.batchOpts = append(o.batchOpts, resolve.WithGroupSize(size))
	}
}

// WithBatchPause sets the pause between batch groups.
func WithBatchPause(pause time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.batchOpts = append(o.batchOpts, resolve.WithPause(pause))
	}
}

// NewEngine opens storage under dataDir, loads the taxonomy from
// taxonomyPath and wires the full pipeline. Construction embeds the phrase
// corpus when no cached vectors match, so it may take a while on first run.
func NewEngine(ctx context.Context, dataDir, taxonomyPath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		logDir:   filepath.Join(dataDir, "logs"),
	}
	for _, opt := range opts {
		opt(options)
	}
	options.taxonomyPath = taxonomyPath

	// Open backend
	backend, err := badger.OpenBackend(filepath.Join(dataDir, "store"), false)
	if err != nil {
		return nil, err
	}

	// Create correction repository
	corrRepo, err := badger.NewCorrectionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create negative example repository
	negRepo, err := badger.NewNegativeExampleRepository(backend)
	if err != nil {
		corrRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create vector cache repository
	cacheRepo, err := badger.NewVectorCacheRepository(backend)
	if err != nil {
		negRepo.Close()
		corrRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create failure repository
	failRepo, err := badger.NewFailureRepository(backend)
	if err != nil {
		cacheRepo.Close()
		negRepo.Close()
		corrRepo.Close()
		backend.Close()
		return nil, err
	}

	closeStorage := func() {
		failRepo.Close()
		cacheRepo.Close()
		negRepo.Close()
		corrRepo.Close()
		backend.Close()
	}

	// Create AI provider with configured settings unless one was injected
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			closeStorage()
			return nil, err
		}
	}

	engine, err := assemble(ctx, options, backend, corrRepo, negRepo, cacheRepo, failRepo, provider)
	if err != nil {
		provider.Close()
		closeStorage()
		return nil, err
	}
	return engine, nil
}

// assemble builds the in-memory pipeline on top of opened storage and a
// live provider. The caller owns cleanup when it returns an error.
func assemble(
	ctx context.Context,
	options *engineOptions,
	backend *badger.Backend,
	corrRepo storage.CorrectionRepository,
	negRepo storage.NegativeExampleRepository,
	cacheRepo storage.VectorCacheRepository,
	failRepo storage.FailureRepository,
	provider ai.Provider,
) (*Engine, error) {
	tax, err := taxonomy.Load(options.taxonomyPath)
	if err != nil {
		return nil, err
	}

	tables, err := rules.LoadTables(options.rulesPath)
	if err != nil {
		return nil, err
	}

	diag := diaglog.NewSet(options.logDir)

	corrMap, err := corrections.NewMap(ctx, corrRepo, diag)
	if err != nil {
		return nil, err
	}

	negatives, err := corrections.NewFilter(ctx, negRepo)
	if err != nil {
		return nil, err
	}

	mapper := rules.NewConstraintMapper(tables, diag)

	retriever, err := retrieval.NewRetriever(ctx, tax, provider.Embedder(),
		options.aiConfig.EmbeddingModel, mapper, cacheRepo, diag)
	if err != nil {
		return nil, err
	}

	disamb, err := selection.NewDisambiguator(provider.Generator(), tax)
	if err != nil {
		return nil, err
	}

	var resolverOpts []resolve.Option
	if options.monitor != nil {
		resolverOpts = append(resolverOpts, resolve.WithMonitor(options.monitor))
	}
	resolver, err := resolve.NewResolver(resolve.Config{
		Corrections:   corrMap,
		Negatives:     negatives,
		Searcher:      retriever,
		Constraints:   mapper,
		Dual:          rules.NewResolver(tables, tax),
		Disambiguator: disamb,
		Taxonomy:      tax,
		Failures:      failRepo,
		Diagnostics:   diag,
	}, resolverOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		backend:     backend,
		corrRepo:    corrRepo,
		negRepo:     negRepo,
		cacheRepo:   cacheRepo,
		failRepo:    failRepo,
		provider:    provider,
		tax:         tax,
		corrections: corrMap,
		negatives:   negatives,
		retriever:   retriever,
		resolver:    resolver,
		diag:        diag,
		batchOpts:   options.batchOpts,
		logger:      slog.Default(),
	}, nil
}

// CategorizeProduct categorizes one product. It never returns an error:
// products that defeat the pipeline come back as the sentinel triple with
// a durable failure record behind them.
func (e *Engine) CategorizeProduct(ctx context.Context, product core.Product) core.Categorization {
	return e.resolver.Resolve(ctx, product)
}

// CategorizeBatch categorizes products in paced groups and appends one
// review report per product. Results are in input order.
func (e *Engine) CategorizeBatch(ctx context.Context, products []core.Product) []resolve.BatchResult {
	return e.resolver.ResolveBatch(ctx, products, e.batchOpts...)
}

// AddCorrection stores curated corrections and makes them effective
// immediately.
func (e *Engine) AddCorrection(ctx context.Context, entries ...core.CorrectionEntry) error {
	return e.corrections.Add(ctx, entries...)
}

// ReportMiscategorization records a known-wrong triple for a product text.
// Subsequent categorizations of that text will never produce the triple.
func (e *Engine) ReportMiscategorization(ctx context.Context, text string, wrong core.Categorization) error {
	return e.negatives.Add(ctx, text, wrong.Category, wrong.Subcategory, wrong.ProductType)
}

// RefreshCorrections reloads the correction map and the negative example
// filter from durable storage.
func (e *Engine) RefreshCorrections(ctx context.Context) error {
	if err := e.corrections.Refresh(ctx); err != nil {
		return err
	}
	return e.negatives.Refresh(ctx)
}

// RebuildVectorCache re-embeds the phrase corpus and replaces the cached
// vectors, ignoring any existing cache entry.
func (e *Engine) RebuildVectorCache(ctx context.Context) error {
	return e.retriever.Rebuild(ctx)
}

// CorpusSize returns the number of candidate phrases in the retrieval
// corpus.
func (e *Engine) CorpusSize() int {
	return len(e.retriever.Phrases())
}

// Corrections returns the in-memory correction map.
func (e *Engine) Corrections() *corrections.Map {
	return e.corrections
}

// FailureRepository returns the durable failure record store.
func (e *Engine) FailureRepository() storage.FailureRepository {
	return e.failRepo
}

// Logs returns the diagnostic log set.
func (e *Engine) Logs() *diaglog.Set {
	return e.diag
}

// Taxonomy returns the loaded taxonomy.
func (e *Engine) Taxonomy() *taxonomy.Store {
	return e.tax
}

func (e *Engine) Close() error {
	// Close AI provider first
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := e.failRepo.Close(); err != nil {
		e.logger.Error("error closing failure repository", "err", err)
		return err
	}
	if err := e.cacheRepo.Close(); err != nil {
		e.logger.Error("error closing vector cache repository", "err", err)
		return err
	}
	if err := e.negRepo.Close(); err != nil {
		e.logger.Error("error closing negative example repository", "err", err)
		return err
	}
	if err := e.corrRepo.Close(); err != nil {
		e.logger.Error("error closing correction repository", "err", err)
		return err
	}

	// Close backend
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
