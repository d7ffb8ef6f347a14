package resolve

import (
	"context"
	"runtime"
	"time"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/diaglog"
)

// Batch processing defaults.
const (
	DefaultBatchGroupSize = 5
	DefaultBatchPause     = 500 * time.Millisecond
)

// BatchResult pairs one input product with its resolved categorization.
// Output order matches input order.
type BatchResult struct {
	Product core.Product        `json:"product"`
	Result  core.Categorization `json:"result"`
}

// BatchOption configures a batch run.
type BatchOption func(*batchConfig)

type batchConfig struct {
	groupSize int
	pause     time.Duration
}

// WithGroupSize sets how many products are resolved between pauses.
func WithGroupSize(size int) BatchOption {
	return func(c *batchConfig) {
		if size > 0 {
			c.groupSize = size
		}
	}
}

// WithPause sets the delay between groups.
func WithPause(pause time.Duration) BatchOption {
	return func(c *batchConfig) {
		if pause >= 0 {
			c.pause = pause
		}
	}
}

// ResolveBatch categorizes products sequentially in fixed-size groups with
// a memory-reclamation point and a short pause between groups. Per-item
// failures are already absorbed by Resolve, so one bad product never
// affects its neighbors. Each result is appended to the report diagnostic
// log for downstream auditing. A canceled context stops between items;
// remaining products get the sentinel.
func (r *Resolver) ResolveBatch(ctx context.Context, products []core.Product, opts ...BatchOption) []BatchResult {
	cfg := batchConfig{groupSize: DefaultBatchGroupSize, pause: DefaultBatchPause}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([]BatchResult, len(products))
	total := len(products)
	groups := (total + cfg.groupSize - 1) / cfg.groupSize

	for start := 0; start < total; start += cfg.groupSize {
		end := min(start+cfg.groupSize, total)
		r.logger.Info("processing batch group",
			"group", start/cfg.groupSize+1, "groups", groups, "size", end-start)

		for i := start; i < end; i++ {
			result := core.Uncategorized()
			if ctx.Err() == nil {
				result = r.Resolve(ctx, products[i])
			}
			results[i] = BatchResult{Product: products[i], Result: result}
			r.reportResult(products[i], result)
		}

		if end == total {
			break
		}

		// Let the previous group's transient allocations go before the
		// next one starts.
		runtime.GC()

		timer := time.NewTimer(cfg.pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Warn("batch canceled", "completed", end, "total", total)
		case <-timer.C:
		}
	}

	return results
}

func (r *Resolver) reportResult(product core.Product, result core.Categorization) {
	r.diag.RecordReport(diaglog.ReportEntry{
		Product: diaglog.ReportProduct{
			Name:        product.Description,
			Category:    result.Category,
			Subcategory: result.Subcategory,
			ProductType: result.ProductType,
		},
		CurrentCategory: result,
		Notes:           "batch categorization result",
		Source:          "system",
	})
}
