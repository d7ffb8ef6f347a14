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


package analyze

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/corrections"
	"github.com/poiesic/categorit/diaglog"
)

// Near-miss clustering defaults.
const (
	DefaultMinOccurrences = 3
	DefaultDaysLimit      = 30
	DefaultMinScore       = 65.0
	DefaultMaxScore       = 90.0
)

// Suggestion is one clustered near-miss pattern: repeated fuzzy lookups
// that almost hit the same correction key.
type Suggestion struct {
	CorrectionKey string
	Correction    core.Categorization
	HasCorrection bool
	Variants      []string
	AverageScore  float64
	Count         int
	SuggestedKeys []string
}

// CorrectionLookup resolves a correction key to its categorization.
// corrections.Map satisfies it.
type CorrectionLookup interface {
	Lookup(productID, productText string) (core.Categorization, corrections.MatchStage)
}

// Option configures a near-miss analysis.
type Option func(*config)

type config struct {
	minOccurrences int
	daysLimit      int
	minScore       float64
	maxScore       float64
}

// WithMinOccurrences sets how many repeats a pattern needs before it is
// suggested.
func WithMinOccurrences(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minOccurrences = n
		}
	}
}

// WithDaysLimit restricts the analysis to entries newer than n days.
// Zero disables the cutoff.
func WithDaysLimit(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.daysLimit = n
		}
	}
}

// WithScoreRange keeps entries whose score lies in [minScore, maxScore).
func WithScoreRange(minScore, maxScore float64) Option {
	return func(c *config) {
		c.minScore = minScore
		c.maxScore = maxScore
	}
}

// AnalyzeNearMisses clusters the near-miss log by the correction key each
// entry almost matched and suggests curated-correction candidates for
// patterns recurring often enough. lookup may be nil when no correction
// map is available.
func AnalyzeNearMisses(path string, lookup CorrectionLookup, opts ...Option) ([]Suggestion, error) {
	cfg := config{
		minOccurrences: DefaultMinOccurrences,
		daysLimit:      DefaultDaysLimit,
		minScore:       DefaultMinScore,
		maxScore:       DefaultMaxScore,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	entries, err := readNearMisses(path)
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if cfg.daysLimit > 0 {
		cutoff = time.Now().AddDate(0, 0, -cfg.daysLimit)
	}

	groups := make(map[string][]diaglog.NearMissEntry)
	var order []string
	for _, entry := range entries {
		if entry.Score < cfg.minScore || entry.Score >= cfg.maxScore {
			continue
		}
		if !cutoff.IsZero() && entry.Timestamp.Before(cutoff) {
			continue
		}
		if _, seen := groups[entry.BestMatch]; !seen {
			order = append(order, entry.BestMatch)
		}
		groups[entry.BestMatch] = append(groups[entry.BestMatch], entry)
	}

	var suggestions []Suggestion
	for _, key := range order {
		items := groups[key]
		if len(items) < cfg.minOccurrences {
			continue
		}

		variants := make([]string, len(items))
		var total float64
		for i, item := range items {
			variants[i] = item.ProductText
			total += item.Score
		}

		suggestion := Suggestion{
			CorrectionKey: key,
			Variants:      variants,
			AverageScore:  total / float64(len(items)),
			Count:         len(items),
			SuggestedKeys: suggestKeys(variants),
		}
		if lookup != nil {
			if result, stage := lookup.Lookup("", key); stage != corrections.MatchNone {
				suggestion.Correction = result
				suggestion.HasCorrection = true
			}
		}
		suggestions = append(suggestions, suggestion)
	}

	sort.SliceStable(suggestions, func(a, b int) bool {
		return suggestions[a].Count > suggestions[b].Count
	})
	return suggestions, nil
}

func readNearMisses(path string) ([]diaglog.NearMissEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("opening near miss log: %w", err)
	}
	defer f.Close()

	var entries []diaglog.NearMissEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry diaglog.NearMissEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// Malformed lines are skipped, not fatal.
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading near miss log: %w", err)
	}
	return entries, nil
}

var keyStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "with": {},
	"in": {}, "on": {}, "at": {}, "of": {}, "to": {}, "for": {},
}

// suggestKeys extracts candidate correction keys from the variant texts:
// words appearing in at least half of them, most frequent first. The top
// two or three words joined make the primary suggestion; the single most
// common word is the fallback.
func suggestKeys(variants []string) []string {
	wordCounts := make(map[string]int)
	var order []string
	for _, text := range variants {
		seen := make(map[string]struct{})
		for _, word := range strings.Fields(strings.ToLower(text)) {
			if len(word) <= 2 {
				continue
			}
			if _, stop := keyStopwords[word]; stop {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			if wordCounts[word] == 0 {
				order = append(order, word)
			}
			wordCounts[word]++
		}
	}

	half := (len(variants) + 1) / 2
	var common []string
	for _, word := range order {
		if wordCounts[word] >= half {
			common = append(common, word)
		}
	}
	sort.SliceStable(common, func(a, b int) bool {
		return wordCounts[common[a]] > wordCounts[common[b]]
	})

	var keys []string
	if len(common) >= 2 {
		top := common
		if len(top) > 3 {
			top = top[:3]
		}
		keys = append(keys, strings.Join(top, " "))
	}
	if len(common) > 0 {
		keys = append(keys, common[0])
	}
	return keys
}
