package diaglog

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/poiesic/categorit/core"
)

// Diagnostic log file names, created under the configured directory.
const (
	FailuresFile        = "failed_categorizations.jsonl"
	NearMissesFile      = "near_misses.jsonl"
	MappingIssuesFile   = "mapping_issues.jsonl"
	ThresholdIssuesFile = "threshold_issues.jsonl"
	ReportsFile         = "reported_categorizations.jsonl"
)

// FailureEntry is one failed-categorization line.
type FailureEntry struct {
	Description       string               `json:"description"`
	AttemptedCategory *core.Categorization `json:"attempted_category,omitempty"`
	ErrorMessage      string               `json:"error_message,omitempty"`
	SourceCategories  []string             `json:"source_categories,omitempty"`
	Timestamp         time.Time            `json:"timestamp"`
}

// NearMissEntry is one fuzzy-match near-miss line.
type NearMissEntry struct {
	ProductText string    `json:"product_text"`
	BestMatch   string    `json:"best_match"`
	Score       float64   `json:"score"`
	Timestamp   time.Time `json:"timestamp"`
}

// IssueEntry is one mapping or threshold issue line.
type IssueEntry struct {
	ProductText      string         `json:"product_text"`
	SourceCategories []string       `json:"source_categories"`
	IssueType        string         `json:"issue_type"`
	Details          map[string]any `json:"details,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// ReportProduct is the product block of a review report.
type ReportProduct struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	ProductType string `json:"product_type"`
}

// ReportEntry is one admin-review report line.
type ReportEntry struct {
	Product           ReportProduct        `json:"product"`
	CurrentCategory   core.Categorization  `json:"currentCategory"`
	SuggestedCategory *core.Categorization `json:"suggestedCategory"`
	Notes             string               `json:"notes"`
	Status            string               `json:"status"`
	Source            string               `json:"source"`
	Timestamp         time.Time            `json:"timestamp"`
}

// Set bundles the diagnostic logs the categorization pipeline writes.
// All Record methods are best-effort: a write failure is logged and
// swallowed. A nil *Set is a valid no-op sink.
type Set struct {
	Failures        *Appender
	NearMisses      *Appender
	MappingIssues   *Appender
	ThresholdIssues *Appender
	Reports         *Appender

	logger *slog.Logger
}

// NewSet creates the full diagnostic log set under dir.
func NewSet(dir string) *Set {
	return &Set{
		Failures:        NewAppender(filepath.Join(dir, FailuresFile)),
		NearMisses:      NewAppender(filepath.Join(dir, NearMissesFile)),
		MappingIssues:   NewAppender(filepath.Join(dir, MappingIssuesFile)),
		ThresholdIssues: NewAppender(filepath.Join(dir, ThresholdIssuesFile)),
		Reports:         NewAppender(filepath.Join(dir, ReportsFile)),
		logger:          slog.Default().With("component", "diaglog"),
	}
}

// RecordFailure appends a failed-categorization entry.
func (s *Set) RecordFailure(entry FailureEntry) {
	if s == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := s.Failures.Append(entry); err != nil {
		s.logger.Warn("failed to record categorization failure", "error", err)
	}
}

// RecordNearMiss appends a fuzzy-match near-miss entry.
func (s *Set) RecordNearMiss(productText, bestMatch string, score float64) {
	if s == nil {
		return
	}
	entry := NearMissEntry{
		ProductText: productText,
		BestMatch:   bestMatch,
		Score:       score,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.NearMisses.Append(entry); err != nil {
		s.logger.Warn("failed to record near miss", "error", err)
	}
}

// RecordMappingIssue appends a mapping-issue entry, such as an unknown
// external category hint or a zero-candidate retrieval.
func (s *Set) RecordMappingIssue(productText string, hints []string, issueType string, details map[string]any) {
	if s == nil {
		return
	}
	entry := IssueEntry{
		ProductText:      productText,
		SourceCategories: hints,
		IssueType:        issueType,
		Details:          details,
		Timestamp:        time.Now().UTC(),
	}
	if err := s.MappingIssues.Append(entry); err != nil {
		s.logger.Warn("failed to record mapping issue", "error", err)
	}
}

// RecordThresholdMiss appends an entry for an unconstrained search whose
// results all fell below the similarity threshold.
func (s *Set) RecordThresholdMiss(productText string, hints []string, threshold float64) {
	if s == nil {
		return
	}
	entry := IssueEntry{
		ProductText:      productText,
		SourceCategories: hints,
		IssueType:        "below_threshold",
		Details:          map[string]any{"threshold": threshold},
		Timestamp:        time.Now().UTC(),
	}
	if err := s.ThresholdIssues.Append(entry); err != nil {
		s.logger.Warn("failed to record threshold miss", "error", err)
	}
}

// RecordReport appends a review report entry.
func (s *Set) RecordReport(entry ReportEntry) {
	if s == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = "pending"
	}
	if err := s.Reports.Append(entry); err != nil {
		s.logger.Warn("failed to record report", "error", err)
	}
}
