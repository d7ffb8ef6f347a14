package rules

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/categorit/core"
)

// MappingIssueRecorder receives observability entries for hint labels the
// tables do not cover. diaglog.Set satisfies this; a nil recorder is valid.
type MappingIssueRecorder interface {
	RecordMappingIssue(productText string, hints []string, issueType string, details map[string]any)
}

// MappedHints is the result of translating external labels through the
// DIRECT / PARTIAL / MULTI table.
type MappedHints struct {
	Categories []string
	Pairs      []core.Pair
}

// ConstraintMapper translates coarse external category hints into taxonomy
// constraints. Unknown hints are ignored; the first sighting of each
// distinct unknown hint is recorded to the mapping-issue log.
type ConstraintMapper struct {
	tables   *Tables
	recorder MappingIssueRecorder
	logger   *slog.Logger

	mu          sync.Mutex
	unknownSeen map[string]struct{}
}

// NewConstraintMapper creates a mapper over the loaded tables.
func NewConstraintMapper(tables *Tables, recorder MappingIssueRecorder) *ConstraintMapper {
	return &ConstraintMapper{
		tables:      tables,
		recorder:    recorder,
		logger:      slog.Default().With("component", "constraints"),
		unknownSeen: make(map[string]struct{}),
	}
}

// ConstrainCategories returns the deduplicated taxonomy categories the
// given hints map to through the coarse constraint table. An empty result
// means retrieval should run unconstrained.
func (m *ConstraintMapper) ConstrainCategories(hints []string) []string {
	var categories []string
	seen := make(map[string]struct{})

	for _, hint := range hints {
		label := strings.ToLower(hint)
		mapped, ok := m.tables.Constraints[label]
		if !ok {
			m.noteUnknownHint(label, hints)
			continue
		}
		for _, category := range mapped {
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	return categories
}

// MapPairsAndCategories translates hints through the external mapping
// table. DIRECT and MULTI entries contribute categories; PARTIAL entries
// contribute a category when no subcategory is given, a pair otherwise.
func (m *ConstraintMapper) MapPairsAndCategories(hints []string) MappedHints {
	var result MappedHints
	seenCategories := make(map[string]struct{})
	seenPairs := make(map[core.Pair]struct{})

	for _, hint := range hints {
		mapping, ok := m.tables.External[strings.ToLower(hint)]
		if !ok {
			continue
		}

		switch mapping.Type {
		case MappingDirect, MappingMulti:
			for _, category := range mapping.Categories {
				if _, dup := seenCategories[category]; dup {
					continue
				}
				seenCategories[category] = struct{}{}
				result.Categories = append(result.Categories, category)
			}
		case MappingPartial:
			for _, partial := range mapping.Mappings {
				if partial.Subcategory == "" {
					if _, dup := seenCategories[partial.Category]; dup {
						continue
					}
					seenCategories[partial.Category] = struct{}{}
					result.Categories = append(result.Categories, partial.Category)
					continue
				}
				pair := core.Pair{Category: partial.Category, Subcategory: partial.Subcategory}
				if _, dup := seenPairs[pair]; dup {
					continue
				}
				seenPairs[pair] = struct{}{}
				result.Pairs = append(result.Pairs, pair)
			}
		}
	}
	return result
}

// noteUnknownHint records each distinct unknown hint label once per process.
func (m *ConstraintMapper) noteUnknownHint(label string, hints []string) {
	m.mu.Lock()
	if _, seen := m.unknownSeen[label]; seen {
		m.mu.Unlock()
		return
	}
	m.unknownSeen[label] = struct{}{}
	m.mu.Unlock()

	m.logger.Warn("unmapped external category hint", "hint", label)
	if m.recorder != nil {
		m.recorder.RecordMappingIssue("", hints, "unknown_hint", map[string]any{"hint": label})
	}
}
