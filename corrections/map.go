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


package corrections

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// Fuzzy matching cutoffs on the 0-100 indel-ratio scale.
const (
	// FuzzyAcceptScore is the minimum similarity for a fuzzy correction hit.
	FuzzyAcceptScore = 90.0

	// NearMissFloor is the minimum similarity worth recording as a near miss.
	// Scores in [NearMissFloor, FuzzyAcceptScore) are logged but not used.
	NearMissFloor = 65.0
)

// MatchStage identifies which lookup stage produced a correction hit.
type MatchStage int

const (
	MatchNone MatchStage = iota
	MatchProductID
	MatchExactText
	MatchSubstring
	MatchFuzzy
)

// String returns a stable label for logging.
func (s MatchStage) String() string {
	switch s {
	case MatchProductID:
		return "product_id"
	case MatchExactText:
		return "exact_text"
	case MatchSubstring:
		return "substring"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// NearMissRecorder receives fuzzy matches that were close but not close
// enough to use. diaglog.Set satisfies this; a nil recorder is valid.
type NearMissRecorder interface {
	RecordNearMiss(productText, bestMatch string, score float64)
}

// Map is the in-memory curated correction map backed by durable storage.
// Lookups run a fixed ladder and report which stage matched. Safe for
// concurrent use; Add and Refresh are the only mutators.
type Map struct {
	repo     storage.CorrectionRepository
	recorder NearMissRecorder
	logger   *slog.Logger

	mu       sync.RWMutex
	byID     map[string]core.Categorization
	byText   map[string]core.Categorization
	textKeys []string
}

// NewMap loads the correction map from storage. A load failure is fatal:
// running with silently missing corrections would miscategorize products a
// human already fixed.
func NewMap(ctx context.Context, repo storage.CorrectionRepository, recorder NearMissRecorder) (*Map, error) {
	m := &Map{
		repo:     repo,
		recorder: recorder,
		logger:   slog.Default().With("component", "corrections"),
	}
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Refresh reloads all entries from durable storage, replacing the in-memory
// map atomically.
func (m *Map) Refresh(ctx context.Context) error {
	entries, err := m.repo.GetAllCorrections(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading corrections: %w", core.ErrPersistence, err)
	}

	byID := make(map[string]core.Categorization)
	byText := make(map[string]core.Categorization)
	for _, entry := range entries {
		if entry.IsProductID {
			byID[entry.Key] = entry.Result
		} else {
			byText[strings.ToLower(entry.Key)] = entry.Result
		}
	}
	textKeys := make([]string, 0, len(byText))
	for key := range byText {
		textKeys = append(textKeys, key)
	}

	m.mu.Lock()
	m.byID = byID
	m.byText = byText
	m.textKeys = textKeys
	m.mu.Unlock()

	m.logger.Info("correction map refreshed",
		"text_entries", len(byText), "id_entries", len(byID))
	return nil
}

// Add persists curated corrections and folds them into the in-memory map.
func (m *Map) Add(ctx context.Context, entries ...core.CorrectionEntry) error {
	if err := m.repo.PutCorrections(ctx, entries...); err != nil {
		return fmt.Errorf("%w: saving corrections: %w", core.ErrPersistence, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		if entry.IsProductID {
			m.byID[entry.Key] = entry.Result
			continue
		}
		key := strings.ToLower(entry.Key)
		if _, exists := m.byText[key]; !exists {
			m.textKeys = append(m.textKeys, key)
		}
		m.byText[key] = entry.Result
	}
	return nil
}

// Len returns the total number of entries.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID) + len(m.byText)
}

// Lookup runs the correction ladder for a product. productText must already
// be description-cleaned. Returns the matched categorization and the stage
// that produced it, or MatchNone when no stage hits.
func (m *Map) Lookup(productID, productText string) (core.Categorization, MatchStage) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Stage 1: product identifier.
	if productID != "" {
		if result, ok := m.byID[productID]; ok {
			m.logger.Info("correction hit", "stage", MatchProductID.String(), "product_id", productID)
			return result, MatchProductID
		}
	}

	// Stage 2: exact case-insensitive text.
	textLower := strings.ToLower(productText)
	if result, ok := m.byText[textLower]; ok {
		m.logger.Info("correction hit", "stage", MatchExactText.String(), "text", productText)
		return result, MatchExactText
	}

	// Stage 3: substring containment either direction, over stripped text.
	strippedText := stripForMatch(productText)
	for _, key := range m.textKeys {
		strippedKey := stripForMatch(key)
		if strippedKey == "" {
			continue
		}
		if strings.Contains(strippedText, strippedKey) || strings.Contains(strippedKey, strippedText) {
			m.logger.Info("correction hit", "stage", MatchSubstring.String(),
				"text", productText, "key", key)
			return m.byText[key], MatchSubstring
		}
	}

	// Stage 4: fuzzy similarity over the same keys.
	bestScore := -1.0
	bestKey := ""
	for _, key := range m.textKeys {
		score := indelRatio(textLower, key)
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}
	if bestKey != "" {
		if bestScore >= FuzzyAcceptScore {
			m.logger.Info("correction hit", "stage", MatchFuzzy.String(),
				"text", productText, "key", bestKey, "score", bestScore)
			return m.byText[bestKey], MatchFuzzy
		}
		if bestScore >= NearMissFloor && m.recorder != nil {
			m.recorder.RecordNearMiss(productText, bestKey, bestScore)
		}
	}

	return core.Categorization{}, MatchNone
}

// stripForMatch lowers the text and removes everything except letters,
// digits and single spaces.
func stripForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
