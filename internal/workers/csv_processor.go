// internal/workers/csv_processor.go
package workers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// CSVProcessor handles async inventory imports. Expected columns:
// name, description, category, price, quantity, low_stock_threshold, barcode.
type CSVProcessor struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewCSVProcessor creates a new CSV import processor
func NewCSVProcessor(service ports.InventoryService, logger *slog.Logger) *CSVProcessor {
	return &CSVProcessor{
		service: service,
		logger:  logger.With(slog.String("processor", "csv")),
	}
}

// ProcessCSV parses an uploaded CSV file and imports inventory items
func (p *CSVProcessor) ProcessCSV(ctx context.Context, t *asynq.Task) error {
	var job ports.CSVImportJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing csv import",
		slog.String("job_id", job.JobID.String()),
		slog.String("store_id", job.StoreID.String()),
		slog.String("file_path", job.FilePath))

	file, err := os.Open(job.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	items, skipped, err := p.parseFile(file, job.StoreID)
	if err != nil {
		return fmt.Errorf("failed to parse csv file: %w", err)
	}

	if len(items) > 0 {
		if err := p.service.SaveItems(ctx, items); err != nil {
			return fmt.Errorf("failed to save items: %w", err)
		}
	}

	// Clean up temp file
	if strings.HasPrefix(job.FilePath, "/tmp/") {
		os.Remove(job.FilePath)
	}

	p.logger.InfoContext(ctx, "csv import completed",
		slog.String("job_id", job.JobID.String()),
		slog.Int("items_imported", len(items)),
		slog.Int("rows_skipped", skipped))

	return nil
}

func (p *CSVProcessor) parseFile(r io.Reader, storeID uuid.UUID) ([]domain.InventoryItem, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var items []domain.InventoryItem
	var skipped, rowIdx int

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		// Skip header row
		if rowIdx == 0 {
			rowIdx++
			continue
		}
		rowIdx++

		item := p.parseRecord(record, storeID)
		if item == nil {
			skipped++
			continue
		}
		items = append(items, *item)
	}

	return items, skipped, nil
}

func (p *CSVProcessor) parseRecord(record []string, storeID uuid.UUID) *domain.InventoryItem {
	get := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	getInt := func(i int) int {
		n, _ := strconv.Atoi(get(i))
		return n
	}

	name := get(0)
	if name == "" {
		return nil
	}

	price, err := decimal.NewFromString(strings.TrimPrefix(get(3), "₹"))
	if err != nil {
		price = decimal.Zero
	}

	quantity := getInt(4)
	if quantity < 0 {
		quantity = 0
	}

	return &domain.InventoryItem{
		StoreID:           storeID,
		Name:              name,
		Description:       get(1),
		Category:          domain.ItemCategory(strings.ToLower(strings.ReplaceAll(get(2), " ", "_"))),
		Price:             price,
		Quantity:          quantity,
		LowStockThreshold: getInt(5),
		Barcode:           get(6),
	}
}
