// internal/core/services/inventory.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// PgxPool interface defines the contract for database operations
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// InventoryService handles inventory business logic
type InventoryService struct {
	repo          ports.InventoryRepository
	notifications ports.NotificationRepository
	enqueuer      ports.TaskEnqueuer
	db            PgxPool
	logger        *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(
	repo ports.InventoryRepository,
	notifications ports.NotificationRepository,
	enqueuer ports.TaskEnqueuer,
	db PgxPool,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		repo:          repo,
		notifications: notifications,
		enqueuer:      enqueuer,
		db:            db,
		logger:        logger.With(slog.String("service", "inventory")),
	}
}

// newRestockEvent assigns the event id that identifies one restock across
// queue retries.
func newRestockEvent(change *domain.StockChange) *ports.RestockEvent {
	seed := fmt.Sprintf("%s:%d:%d:%d",
		change.ItemID, change.OldQuantity, change.NewQuantity, time.Now().UnixNano())
	sum := sha256.Sum256([]byte(seed))

	return &ports.RestockEvent{
		EventID:     hex.EncodeToString(sum[:16]),
		ItemID:      change.ItemID,
		StoreID:     change.StoreID,
		ItemName:    change.Name,
		OldQuantity: change.OldQuantity,
		NewQuantity: change.NewQuantity,
	}
}

// SaveItem saves a single inventory item
func (s *InventoryService) SaveItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	item.PrepareForStorage()

	if err := s.repo.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.InfoContext(ctx, "saved inventory item",
		slog.String("item_id", item.ID.String()),
		slog.String("store_id", item.StoreID.String()),
		slog.String("name", item.Name))

	return nil
}

// SaveItems saves multiple inventory items with transaction support
func (s *InventoryService) SaveItems(ctx context.Context, items []domain.InventoryItem) error {
	if len(items) == 0 {
		s.logger.InfoContext(ctx, "no items to save")
		return nil
	}

	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("validation failed for item %s: %w", items[i].Name, err)
		}
		items[i].PrepareForStorage()
	}

	if err := s.repo.SaveBatch(ctx, items); err != nil {
		return fmt.Errorf("failed to save items batch: %w", err)
	}

	s.logger.InfoContext(ctx, "saved inventory items",
		slog.Int("count", len(items)))

	return nil
}

// GetByID retrieves an inventory item by ID
func (s *InventoryService) GetByID(ctx context.Context, itemID uuid.UUID) (*domain.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	if item == nil {
		return nil, ports.ErrItemNotFound
	}

	return item, nil
}

// UpdateItem overwrites an existing item. When the update raises the on-hand
// quantity it is a restock and the fan-out task is enqueued; when it drops
// the quantity to or below the threshold a low-stock alert is written.
func (s *InventoryService) UpdateItem(ctx context.Context, itemID uuid.UUID, item *domain.InventoryItem) error {
	item.ID = itemID

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	change, err := s.repo.Update(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.InfoContext(ctx, "updated inventory item",
		slog.String("item_id", itemID.String()),
		slog.Int("old_quantity", change.OldQuantity),
		slog.Int("new_quantity", change.NewQuantity))

	if change.IsRestock() {
		s.fanOutRestock(ctx, change)
		return nil
	}

	if change.NewQuantity < change.OldQuantity && item.IsLowStock() {
		s.alertLowStock(ctx, &domain.StockLevel{
			ItemID:            change.ItemID,
			StoreID:           change.StoreID,
			Name:              change.Name,
			Quantity:          change.NewQuantity,
			LowStockThreshold: item.LowStockThreshold,
		})
	}

	return nil
}

// SetImageURL replaces the item's image URL without touching any other
// column, so it can run concurrently with stock mutations.
func (s *InventoryService) SetImageURL(ctx context.Context, itemID uuid.UUID, url string) error {
	if err := s.repo.UpdateImageURL(ctx, itemID, url); err != nil {
		return fmt.Errorf("failed to set image URL: %w", err)
	}

	s.logger.InfoContext(ctx, "updated item image",
		slog.String("item_id", itemID.String()))

	return nil
}

// Restock sets the absolute quantity of an item and triggers the
// back-in-stock fan-out when the quantity went up.
func (s *InventoryService) Restock(ctx context.Context, itemID uuid.UUID, quantity int) (*domain.StockChange, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	change, err := s.repo.Restock(ctx, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to restock item: %w", err)
	}

	s.logger.InfoContext(ctx, "restocked inventory item",
		slog.String("item_id", itemID.String()),
		slog.Int("old_quantity", change.OldQuantity),
		slog.Int("new_quantity", change.NewQuantity))

	if change.IsRestock() {
		s.fanOutRestock(ctx, change)
	}

	return change, nil
}

// AdjustQuantity applies a signed delta atomically. The low-stock check runs
// against the quantity the adjustment itself returned, so concurrent
// adjustments each see their own post-write value.
func (s *InventoryService) AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (*domain.StockLevel, error) {
	level, err := s.repo.AdjustQuantity(ctx, itemID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	if delta < 0 && level.IsLowStock() {
		s.alertLowStock(ctx, level)
	}

	return level, nil
}

// DeleteItem deletes an inventory item (soft delete by default)
func (s *InventoryService) DeleteItem(ctx context.Context, itemID uuid.UUID, permanent bool) error {
	exists, err := s.repo.Exists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to check item existence: %w", err)
	}

	if !exists {
		return ports.ErrItemNotFound
	}

	if permanent {
		err = s.repo.Delete(ctx, itemID)
	} else {
		err = s.repo.SoftDelete(ctx, itemID)
	}

	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted inventory item",
		slog.String("item_id", itemID.String()),
		slog.Bool("permanent", permanent))

	return nil
}

// LowStock returns all items of a store at or below their threshold.
func (s *InventoryService) LowStock(ctx context.Context, storeID uuid.UUID) ([]domain.StockLevel, error) {
	levels, err := s.repo.FindLowStock(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return levels, nil
}

// List retrieves inventory items with filtering and pagination
func (s *InventoryService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	items, totalCount, err := s.getFilteredItems(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}

	var totalPages int
	if params.PageSize > 0 {
		totalPages = int(totalCount) / params.PageSize
		if int(totalCount)%params.PageSize > 0 {
			totalPages++
		}
	}

	return &ports.ListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// fanOutRestock enqueues the back-in-stock fan-out. The inventory write has
// already committed, so an enqueue failure is logged rather than surfaced.
func (s *InventoryService) fanOutRestock(ctx context.Context, change *domain.StockChange) {
	event := newRestockEvent(change)

	if err := s.enqueuer.EnqueueRestockFanout(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue restock fan-out",
			slog.String("item_id", change.ItemID.String()),
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()))
		return
	}

	s.logger.InfoContext(ctx, "restock fan-out enqueued",
		slog.String("item_id", change.ItemID.String()),
		slog.String("event_id", event.EventID))
}

func (s *InventoryService) alertLowStock(ctx context.Context, level *domain.StockLevel) {
	n := domain.NewLowStockNotification(level)

	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to create low stock notification",
			slog.String("item_id", level.ItemID.String()),
			slog.String("error", err.Error()))
		return
	}

	s.logger.InfoContext(ctx, "low stock notification created",
		slog.String("item_id", level.ItemID.String()),
		slog.Int("quantity", level.Quantity))
}

// getFilteredItems is a helper method that queries the database directly
func (s *InventoryService) getFilteredItems(ctx context.Context, params ports.ListParams) ([]*domain.InventoryItem, int64, error) {
	applyFilters := func(qb squirrel.SelectBuilder) squirrel.SelectBuilder {
		qb = qb.Where("deleted_at IS NULL")
		if params.StoreID != uuid.Nil {
			qb = qb.Where(squirrel.Eq{"store_id": params.StoreID})
		}
		if params.Search != "" {
			qb = qb.Where("search_vector @@ plainto_tsquery('english', ?)", params.Search)
		}
		if params.Category != "" {
			qb = qb.Where(squirrel.Eq{"category": params.Category})
		}
		if params.LowStock {
			qb = qb.Where("quantity <= low_stock_threshold")
		}
		if params.InStock {
			qb = qb.Where("quantity > 0")
		}
		return qb
	}

	// Count total items before pagination
	countSQL, countArgs, err := applyFilters(
		squirrel.Select("COUNT(*)").From("inventory").PlaceholderFormat(squirrel.Dollar),
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	err = s.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount)
	if err != nil && err != pgx.ErrNoRows {
		return nil, 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	qb := applyFilters(squirrel.Select(
		"item_id", "store_id", "name", "description", "category",
		"price", "quantity", "low_stock_threshold", "sales_count",
		"image_url", "barcode", "expiry_date", "last_restocked",
		"created_at", "updated_at",
	).From("inventory").PlaceholderFormat(squirrel.Dollar))

	orderBy := "created_at DESC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}

		switch params.SortBy {
		case "name":
			orderBy = fmt.Sprintf("name %s", direction)
		case "price":
			orderBy = fmt.Sprintf("price %s", direction)
		case "quantity":
			orderBy = fmt.Sprintf("quantity %s", direction)
		case "sales":
			orderBy = fmt.Sprintf("sales_count %s", direction)
		default:
			orderBy = fmt.Sprintf("created_at %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy).
		Limit(uint64(params.PageSize)).
		Offset(uint64((params.Page - 1) * params.PageSize))

	listSQL, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*domain.InventoryItem
	for rows.Next() {
		item := &domain.InventoryItem{}
		var description, imageURL, barcode *string

		err := rows.Scan(
			&item.ID, &item.StoreID, &item.Name, &description, &item.Category,
			&item.Price, &item.Quantity, &item.LowStockThreshold, &item.SalesCount,
			&imageURL, &barcode, &item.ExpiryDate, &item.LastRestocked,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}

		if description != nil {
			item.Description = *description
		}
		if imageURL != nil {
			item.ImageURL = *imageURL
		}
		if barcode != nil {
			item.Barcode = *barcode
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, totalCount, nil
}
