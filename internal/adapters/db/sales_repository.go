// internal/adapters/db/sales_repository.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// salesRepository implements ports.SalesRepository over the immutable ledger
type salesRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSalesRepository creates a new sales repository
func NewSalesRepository(db *Database, logger *slog.Logger) ports.SalesRepository {
	return &salesRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "sales")),
	}
}

// FindByStore returns a store's ledger entries within [from, to)
func (r *salesRepository) FindByStore(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]domain.SalesRecord, error) {
	query := `
		SELECT sale_id, order_id, store_id, items, total_amount, quantity, sale_date
		FROM sales
		WHERE store_id = $1 AND sale_date >= $2 AND sale_date < $3
		ORDER BY sale_date DESC`

	rows, err := r.db.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []domain.SalesRecord
	for rows.Next() {
		var record domain.SalesRecord
		var itemsJSON []byte

		err := rows.Scan(
			&record.ID, &record.OrderID, &record.StoreID, &itemsJSON,
			&record.TotalAmount, &record.Quantity, &record.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &record.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sale items: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Summary aggregates a store's sales within [from, to) for the dashboard
func (r *salesRepository) Summary(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*domain.SalesSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*), COALESCE(SUM(quantity), 0)
		FROM sales
		WHERE store_id = $1 AND sale_date >= $2 AND sale_date < $3`

	summary := &domain.SalesSummary{
		StoreID:     storeID,
		Revenue:     decimal.Zero,
		GeneratedAt: time.Now(),
	}

	err := r.db.QueryRow(ctx, query, storeID, from, to).Scan(
		&summary.Revenue, &summary.OrderCount, &summary.UnitsSold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	topQuery := `
		SELECT item_id, name, sales_count
		FROM inventory
		WHERE store_id = $1 AND deleted_at IS NULL AND sales_count > 0
		ORDER BY sales_count DESC
		LIMIT 5`

	rows, err := r.db.Query(ctx, topQuery, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var top domain.TopItem
		if err := rows.Scan(&top.ItemID, &top.Name, &top.SalesCount); err != nil {
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
		summary.TopItems = append(summary.TopItems, top)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summary, nil
}
