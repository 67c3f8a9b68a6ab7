// internal/workers/analytics_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/kiranakart/kirana-be/internal/adapters/storage"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

const dashboardCacheTTL = 15 * time.Minute

// AnalyticsProcessor rolls up a store's sales ledger into the dashboard
// summary and generates downloadable sales reports.
type AnalyticsProcessor struct {
	sales   ports.SalesRepository
	cache   ports.CacheRepository
	storage storage.StorageClient
	logger  *slog.Logger
}

// NewAnalyticsProcessor creates a new analytics processor
func NewAnalyticsProcessor(
	sales ports.SalesRepository,
	cache ports.CacheRepository,
	storage storage.StorageClient,
	logger *slog.Logger,
) *AnalyticsProcessor {
	return &AnalyticsProcessor{
		sales:   sales,
		cache:   cache,
		storage: storage,
		logger:  logger.With(slog.String("processor", "analytics")),
	}
}

// rollupPayload is the task payload for TaskAnalytics
type rollupPayload struct {
	StoreID uuid.UUID `json:"store_id"`
	Days    int       `json:"days"`
	Export  bool      `json:"export"`
}

// RollupSales recomputes the dashboard summary for one store and refreshes
// the cache. When the payload asks for an export, a spreadsheet is written to
// object storage alongside it.
func (p *AnalyticsProcessor) RollupSales(ctx context.Context, t *asynq.Task) error {
	var payload rollupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if payload.Days <= 0 {
		payload.Days = 30
	}

	to := time.Now()
	from := to.AddDate(0, 0, -payload.Days)

	p.logger.InfoContext(ctx, "rolling up sales",
		slog.String("store_id", payload.StoreID.String()),
		slog.Int("days", payload.Days))

	summary, err := p.sales.Summary(ctx, payload.StoreID, from, to)
	if err != nil {
		return fmt.Errorf("failed to summarize sales: %w", err)
	}

	key := fmt.Sprintf("dash:store:%s", payload.StoreID)
	if err := p.cache.SetWithTTL(ctx, key, summary, dashboardCacheTTL); err != nil {
		// A stale dashboard beats a failed rollup.
		p.logger.WarnContext(ctx, "failed to cache dashboard summary",
			slog.String("store_id", payload.StoreID.String()),
			slog.String("error", err.Error()))
	}

	if payload.Export {
		if err := p.exportReport(ctx, payload.StoreID, from, to); err != nil {
			return fmt.Errorf("failed to export sales report: %w", err)
		}
	}

	p.logger.InfoContext(ctx, "sales rollup completed",
		slog.String("store_id", payload.StoreID.String()),
		slog.Int64("order_count", summary.OrderCount),
		slog.String("revenue", summary.Revenue.String()))

	return nil
}

// exportReport writes the period's sales to a spreadsheet in object storage
func (p *AnalyticsProcessor) exportReport(ctx context.Context, storeID uuid.UUID, from, to time.Time) error {
	records, err := p.sales.FindByStore(ctx, storeID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load sales records: %w", err)
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Sales")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"Order ID", "Date", "Units", "Total (INR)"} {
		header.AddCell().SetString(h)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.OrderID.String())
		row.AddCell().SetString(rec.Date.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(rec.Quantity)
		row.AddCell().SetString(rec.TotalAmount.StringFixed(2))
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	key := fmt.Sprintf("exports/sales_%s_%s.xlsx", storeID, to.Format("20060102"))
	location, err := p.storage.Upload(ctx, key, &buf,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	p.logger.InfoContext(ctx, "sales report exported",
		slog.String("store_id", storeID.String()),
		slog.String("location", location),
		slog.Int("rows", len(records)))

	return nil
}
