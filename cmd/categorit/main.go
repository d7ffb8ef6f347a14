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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/categorit"
	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/analyze"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/corrections"
	"github.com/poiesic/categorit/diaglog"
	"github.com/poiesic/categorit/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "categorit",
		Usage: "Hierarchical product categorization engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "categorize",
				Usage:  "Categorize a batch of products from a JSON file",
				Action: categorizeCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON array of products",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the JSON results (defaults to stdout)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products per batch group",
						Value: 5,
					},
					&cli.DurationFlag{
						Name:  "pause",
						Usage: "Pause between batch groups",
						Value: 500 * time.Millisecond,
					},
				),
			},
			{
				Name:   "rebuild-cache",
				Usage:  "Re-embed the taxonomy phrase corpus and replace the cached vectors",
				Action: rebuildCacheCommand,
				Flags:  engineFlags(),
			},
			{
				Name:   "correct",
				Usage:  "Store a curated correction for a product text or ID",
				Action: correctCommand,
				Flags: []cli.Flag{
					dataDirFlag(),
					&cli.StringFlag{
						Name:     "key",
						Aliases:  []string{"k"},
						Usage:    "Product text or product ID the correction matches",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "product-id",
						Usage: "Treat the key as a product ID instead of product text",
					},
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Corrected category",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "subcategory",
						Usage:    "Corrected subcategory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "product-type",
						Usage:    "Corrected product type",
						Required: true,
					},
				},
			},
			{
				Name:   "feedback",
				Usage:  "Record a known-wrong categorization for a product text",
				Action: feedbackCommand,
				Flags: []cli.Flag{
					dataDirFlag(),
					&cli.StringFlag{
						Name:     "text",
						Aliases:  []string{"t"},
						Usage:    "Product text that was miscategorized",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Wrong category to suppress",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "subcategory",
						Usage:    "Wrong subcategory to suppress",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "product-type",
						Usage:    "Wrong product type to suppress",
						Required: true,
					},
				},
			},
			{
				Name:   "near-misses",
				Usage:  "Cluster the near-miss log and suggest correction candidates",
				Action: nearMissesCommand,
				Flags: []cli.Flag{
					dataDirFlag(),
					&cli.StringFlag{
						Name:  "log-dir",
						Usage: "Diagnostic log directory (defaults to <data-dir>/logs)",
					},
					&cli.IntFlag{
						Name:  "min-occurrences",
						Usage: "Minimum repeats before a pattern is suggested",
						Value: analyze.DefaultMinOccurrences,
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Only consider entries newer than this many days (0 disables)",
						Value: analyze.DefaultDaysLimit,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Lowest fuzzy score to include",
						Value: analyze.DefaultMinScore,
					},
					&cli.Float64Flag{
						Name:  "max-score",
						Usage: "Scores at or above this are excluded",
						Value: analyze.DefaultMaxScore,
					},
				},
			},
			{
				Name:   "convert-failures",
				Usage:  "Turn stored failure records into pending review reports",
				Action: convertFailuresCommand,
				Flags: []cli.Flag{
					dataDirFlag(),
					&cli.StringFlag{
						Name:  "log-dir",
						Usage: "Diagnostic log directory (defaults to <data-dir>/logs)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "data-dir",
		Aliases:  []string{"d"},
		Usage:    "Path to the data directory",
		Required: true,
	}
}

// engineFlags are shared by commands that assemble the full pipeline.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		dataDirFlag(),
		&cli.StringFlag{
			Name:     "taxonomy",
			Aliases:  []string{"t"},
			Usage:    "Path to the taxonomy JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "rules",
			Usage: "Path to a YAML rules file (defaults to built-in tables)",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "OpenAI-compatible service base URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "generation-model",
			Usage:    "Text generation model name",
			Required: true,
		},
	}
}

func newEngine(ctx context.Context, c *cli.Context, extra ...categorit.EngineOption) (*categorit.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("base-url")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generation-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := append([]categorit.EngineOption{
		categorit.WithAIConfig(aiConfig),
		categorit.WithRules(c.String("rules")),
	}, extra...)

	return categorit.NewEngine(ctx, c.String("data-dir"), c.String("taxonomy"), opts...)
}

func categorizeCommand(c *cli.Context) error {
	ctx := context.Background()

	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var products []core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("input file contains no products")
	}

	engine, err := newEngine(ctx, c,
		categorit.WithBatchGroupSize(c.Int("batch-size")),
		categorit.WithBatchPause(c.Duration("pause")),
	)
	if err != nil {
		return fmt.Errorf("failed to assemble engine: %w", err)
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Products: %d\n", len(products))
	fmt.Fprintf(os.Stderr, "Taxonomy: %s\n", c.String("taxonomy"))
	fmt.Fprintln(os.Stderr)

	results := engine.CategorizeBatch(ctx, products)

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func rebuildCacheCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := newEngine(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to assemble engine: %w", err)
	}
	defer engine.Close()

	start := time.Now()
	if err := engine.RebuildVectorCache(ctx); err != nil {
		return fmt.Errorf("cache rebuild failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Re-embedded %d phrases in %s\n",
		engine.CorpusSize(), time.Since(start).Round(time.Millisecond))
	return nil
}

func correctCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(storePath(c.String("data-dir")), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewCorrectionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	corrMap, err := corrections.NewMap(ctx, repo, nil)
	if err != nil {
		return fmt.Errorf("failed to load correction map: %w", err)
	}

	entry := core.CorrectionEntry{
		Key:         c.String("key"),
		IsProductID: c.Bool("product-id"),
		Result: core.Categorization{
			Category:    c.String("category"),
			Subcategory: c.String("subcategory"),
			ProductType: c.String("product-type"),
		},
	}
	if err := corrMap.Add(ctx, entry); err != nil {
		return fmt.Errorf("failed to store correction: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Stored correction for %q\n", entry.Key)
	return nil
}

func feedbackCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(storePath(c.String("data-dir")), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewNegativeExampleRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	filter, err := corrections.NewFilter(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to load negative examples: %w", err)
	}

	if err := filter.Add(ctx, c.String("text"),
		c.String("category"), c.String("subcategory"), c.String("product-type")); err != nil {
		return fmt.Errorf("failed to store negative example: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recorded wrong categorization for %q\n", c.String("text"))
	return nil
}

func nearMissesCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(storePath(c.String("data-dir")), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewCorrectionRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	corrMap, err := corrections.NewMap(ctx, repo, nil)
	if err != nil {
		return fmt.Errorf("failed to load correction map: %w", err)
	}

	logPath := filepath.Join(logDir(c), diaglog.NearMissesFile)
	suggestions, err := analyze.AnalyzeNearMisses(logPath, corrMap,
		analyze.WithMinOccurrences(c.Int("min-occurrences")),
		analyze.WithDaysLimit(c.Int("days")),
		analyze.WithScoreRange(c.Float64("min-score"), c.Float64("max-score")),
	)
	if err != nil {
		return fmt.Errorf("near miss analysis failed: %w", err)
	}

	if len(suggestions) == 0 {
		fmt.Fprintln(os.Stderr, "No recurring near-miss patterns found")
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(suggestions)
}

func convertFailuresCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(storePath(c.String("data-dir")), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewFailureRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	reportsPath := filepath.Join(logDir(c), diaglog.ReportsFile)
	converted, err := analyze.ConvertFailures(ctx, repo, reportsPath)
	if err != nil {
		return fmt.Errorf("failure conversion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Converted %d failure records to reports\n", converted)
	return nil
}

// storePath mirrors the engine's layout under the data directory.
func storePath(dataDir string) string {
	return filepath.Join(dataDir, "store")
}

func logDir(c *cli.Context) string {
	if dir := c.String("log-dir"); dir != "" {
		return dir
	}
	return filepath.Join(c.String("data-dir"), "logs")
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
