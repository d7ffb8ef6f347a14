package analyze

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/diaglog"
	"github.com/poiesic/categorit/storage"
)

// ConvertFailures turns every durable failure record into a pending review
// report appended to reportsPath, skipping products already reported, then
// purges the converted records. Returns the number of new reports written.
func ConvertFailures(ctx context.Context, failures storage.FailureRepository, reportsPath string) (int, error) {
	logger := slog.Default().With("component", "analyze")

	records, err := failures.GetAllFailures(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading failure records: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	existing, err := reportedNames(reportsPath)
	if err != nil {
		return 0, err
	}

	reports := diaglog.NewAppender(reportsPath)
	converted := 0
	for _, record := range records {
		if _, dup := existing[record.ProductText]; dup {
			continue
		}

		sentinel := core.Uncategorized()
		entry := diaglog.ReportEntry{
			Product: diaglog.ReportProduct{
				Name:        record.ProductText,
				Category:    sentinel.Category,
				Subcategory: sentinel.Subcategory,
				ProductType: sentinel.ProductType,
			},
			CurrentCategory: sentinel,
			Notes:           "System-detected categorization failure: " + record.Reason,
			Status:          "pending",
			Source:          "system",
			Timestamp:       record.Timestamp,
		}
		if err := reports.Append(entry); err != nil {
			return converted, fmt.Errorf("appending report: %w", err)
		}
		existing[record.ProductText] = struct{}{}
		converted++
	}

	if err := failures.PurgeFailures(ctx); err != nil {
		return converted, fmt.Errorf("purging converted failures: %w", err)
	}

	logger.Info("converted failure records to reports",
		"converted", converted, "skipped", len(records)-converted)
	return converted, nil
}

// reportedNames reads the product names already present in the reports
// file. A missing file means nothing is reported yet.
func reportedNames(path string) (map[string]struct{}, error) {
	names := make(map[string]struct{})

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return names, nil
		}
		return nil, fmt.Errorf("opening reports file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry diaglog.ReportEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Product.Name != "" {
			names[entry.Product.Name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reports file: %w", err)
	}
	return names, nil
}
