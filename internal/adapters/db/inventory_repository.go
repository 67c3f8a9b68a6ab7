// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// inventoryRepository implements ports.InventoryRepository
type inventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) ports.InventoryRepository {
	return &inventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

const inventoryColumns = `
	item_id, store_id, name, description, category,
	price, quantity, low_stock_threshold, sales_count,
	image_url, barcode, expiry_date, last_restocked,
	created_at, updated_at`

// Save creates a new inventory item
func (r *inventoryRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory (
			item_id, store_id, name, description, category,
			price, quantity, low_stock_threshold, sales_count,
			image_url, barcode, expiry_date,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING item_id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.StoreID, item.Name, nullIfEmpty(item.Description), item.Category,
		item.Price, item.Quantity, item.LowStockThreshold, item.SalesCount,
		nullIfEmpty(item.ImageURL), nullIfEmpty(item.Barcode), item.ExpiryDate,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory item saved",
		slog.String("item_id", item.ID.String()),
		slog.String("store_id", item.StoreID.String()))

	return nil
}

// SaveBatch saves multiple inventory items in a transaction
func (r *inventoryRepository) SaveBatch(ctx context.Context, items []domain.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		query := `
			INSERT INTO inventory (
				item_id, store_id, name, description, category,
				price, quantity, low_stock_threshold, sales_count,
				image_url, barcode, expiry_date,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
			)`

		for i := range items {
			batch.Queue(query,
				items[i].ID, items[i].StoreID, items[i].Name,
				nullIfEmpty(items[i].Description), items[i].Category,
				items[i].Price, items[i].Quantity, items[i].LowStockThreshold, items[i].SalesCount,
				nullIfEmpty(items[i].ImageURL), nullIfEmpty(items[i].Barcode), items[i].ExpiryDate,
				items[i].CreatedAt, items[i].UpdatedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := range items {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to save item %d: %w", i, err)
			}
		}

		return nil
	})
}

// Update overwrites an existing item. The self-join against the pre-update
// row lets the single statement return both quantities.
func (r *inventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) (*domain.StockChange, error) {
	query := `
		UPDATE inventory AS inv SET
			name = $2, description = $3, category = $4, price = $5,
			quantity = $6, low_stock_threshold = $7,
			image_url = $8, barcode = $9, expiry_date = $10,
			last_restocked = CASE WHEN $6 > prev.quantity THEN now() ELSE inv.last_restocked END,
			updated_at = $11
		FROM (
			SELECT item_id, quantity FROM inventory
			WHERE item_id = $1 AND deleted_at IS NULL
		) AS prev
		WHERE inv.item_id = prev.item_id
		RETURNING inv.store_id, inv.name, prev.quantity, inv.quantity`

	item.UpdatedAt = time.Now()

	change := &domain.StockChange{ItemID: item.ID}
	err := r.db.QueryRow(ctx, query,
		item.ID, item.Name, nullIfEmpty(item.Description), item.Category, item.Price,
		item.Quantity, item.LowStockThreshold,
		nullIfEmpty(item.ImageURL), nullIfEmpty(item.Barcode), item.ExpiryDate,
		item.UpdatedAt,
	).Scan(&change.StoreID, &change.Name, &change.OldQuantity, &change.NewQuantity)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ports.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory item updated",
		slog.String("item_id", item.ID.String()),
		slog.Int("old_quantity", change.OldQuantity),
		slog.Int("new_quantity", change.NewQuantity))

	return change, nil
}

// FindByID retrieves an inventory item by ID
func (r *inventoryRepository) FindByID(ctx context.Context, itemID uuid.UUID) (*domain.InventoryItem, error) {
	query := `SELECT` + inventoryColumns + `
		FROM inventory
		WHERE item_id = $1 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}

	return item, nil
}

// FindByBarcode retrieves an item by its barcode within one store
func (r *inventoryRepository) FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*domain.InventoryItem, error) {
	query := `SELECT` + inventoryColumns + `
		FROM inventory
		WHERE store_id = $1 AND barcode = $2 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, storeID, barcode))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find inventory item by barcode: %w", err)
	}

	return item, nil
}

// AdjustQuantity applies a signed delta in a single statement. The WHERE
// clause guards against going below zero, so a failed decrement leaves the
// row untouched.
func (r *inventoryRepository) AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (*domain.StockLevel, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity + $2, updated_at = now()
		WHERE item_id = $1 AND deleted_at IS NULL AND quantity + $2 >= 0
		RETURNING item_id, store_id, name, quantity, low_stock_threshold, sales_count`

	level := &domain.StockLevel{}
	err := r.db.QueryRow(ctx, query, itemID, delta).Scan(
		&level.ItemID, &level.StoreID, &level.Name,
		&level.Quantity, &level.LowStockThreshold, &level.SalesCount,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			exists, exErr := r.Exists(ctx, itemID)
			if exErr != nil {
				return nil, fmt.Errorf("failed to adjust quantity: %w", exErr)
			}
			if !exists {
				return nil, ports.ErrItemNotFound
			}
			return nil, ports.ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	return level, nil
}

// Restock sets the absolute quantity and stamps last_restocked
func (r *inventoryRepository) Restock(ctx context.Context, itemID uuid.UUID, quantity int) (*domain.StockChange, error) {
	query := `
		UPDATE inventory AS inv
		SET quantity = $2, last_restocked = now(), updated_at = now()
		FROM (
			SELECT item_id, quantity FROM inventory
			WHERE item_id = $1 AND deleted_at IS NULL
		) AS prev
		WHERE inv.item_id = prev.item_id
		RETURNING inv.store_id, inv.name, prev.quantity, inv.quantity`

	change := &domain.StockChange{ItemID: itemID}
	err := r.db.QueryRow(ctx, query, itemID, quantity).Scan(
		&change.StoreID, &change.Name, &change.OldQuantity, &change.NewQuantity,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ports.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to restock inventory item: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory item restocked",
		slog.String("item_id", itemID.String()),
		slog.Int("old_quantity", change.OldQuantity),
		slog.Int("new_quantity", change.NewQuantity))

	return change, nil
}

// FindLowStock returns all items of a store at or below their threshold
func (r *inventoryRepository) FindLowStock(ctx context.Context, storeID uuid.UUID) ([]domain.StockLevel, error) {
	query := `
		SELECT item_id, store_id, name, quantity, low_stock_threshold, sales_count
		FROM inventory
		WHERE store_id = $1 AND quantity <= low_stock_threshold AND deleted_at IS NULL
		ORDER BY quantity ASC`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock items: %w", err)
	}
	defer rows.Close()

	var levels []domain.StockLevel
	for rows.Next() {
		var level domain.StockLevel
		err := rows.Scan(
			&level.ItemID, &level.StoreID, &level.Name,
			&level.Quantity, &level.LowStockThreshold, &level.SalesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return levels, nil
}

// UpdateImageURL writes only the image URL column
func (r *inventoryRepository) UpdateImageURL(ctx context.Context, itemID uuid.UUID, url string) error {
	query := `UPDATE inventory SET image_url = $2, updated_at = now() WHERE item_id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, itemID, url)
	if err != nil {
		return fmt.Errorf("failed to update image URL: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ports.ErrItemNotFound
	}

	return nil
}

// SoftDelete marks an item as deleted
func (r *inventoryRepository) SoftDelete(ctx context.Context, itemID uuid.UUID) error {
	query := `UPDATE inventory SET deleted_at = $2, updated_at = $2 WHERE item_id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, itemID, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete inventory item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ports.ErrItemNotFound
	}

	r.logger.InfoContext(ctx, "inventory item soft deleted",
		slog.String("item_id", itemID.String()))

	return nil
}

// Delete performs a hard delete
func (r *inventoryRepository) Delete(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM inventory WHERE item_id = $1`

	tag, err := r.db.Exec(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ports.ErrItemNotFound
	}

	r.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("item_id", itemID.String()))

	return nil
}

// Exists checks if an inventory item exists
func (r *inventoryRepository) Exists(ctx context.Context, itemID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM inventory WHERE item_id = $1 AND deleted_at IS NULL)`

	var exists bool
	err := r.db.QueryRow(ctx, query, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists, nil
}

// Count returns the number of live items in a store
func (r *inventoryRepository) Count(ctx context.Context, storeID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM inventory WHERE store_id = $1 AND deleted_at IS NULL`

	var count int64
	err := r.db.QueryRow(ctx, query, storeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	return count, nil
}

// scanItem scans one inventory row in inventoryColumns order
func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{}
	var description, imageURL, barcode sql.NullString

	err := row.Scan(
		&item.ID, &item.StoreID, &item.Name, &description, &item.Category,
		&item.Price, &item.Quantity, &item.LowStockThreshold, &item.SalesCount,
		&imageURL, &barcode, &item.ExpiryDate, &item.LastRestocked,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Description = description.String
	item.ImageURL = imageURL.String
	item.Barcode = barcode.String

	return item, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
