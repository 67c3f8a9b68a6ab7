// internal/core/ports/inventory_repository.go
package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

// Inventory persistence errors surfaced to services and handlers.
var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InventoryRepository defines the persistence port for inventory.
// This interface is implemented by the database adapter.
type InventoryRepository interface {
	Save(ctx context.Context, item *domain.InventoryItem) error
	SaveBatch(ctx context.Context, items []domain.InventoryItem) error

	// Update overwrites the stored item and returns the before/after
	// quantities so callers can detect restocks without a second read.
	Update(ctx context.Context, item *domain.InventoryItem) (*domain.StockChange, error)

	// UpdateImageURL writes only the image URL, leaving quantity and the
	// other columns untouched so it cannot race stock mutations.
	UpdateImageURL(ctx context.Context, itemID uuid.UUID, url string) error

	FindByID(ctx context.Context, itemID uuid.UUID) (*domain.InventoryItem, error)
	FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*domain.InventoryItem, error)

	// AdjustQuantity applies a signed delta atomically. A negative delta
	// that would take the quantity below zero fails with
	// ErrInsufficientStock and leaves the row untouched. The returned
	// StockLevel is the post-mutation row.
	AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (*domain.StockLevel, error)

	// Restock sets the absolute quantity and stamps last_restocked,
	// returning the before/after quantities.
	Restock(ctx context.Context, itemID uuid.UUID, quantity int) (*domain.StockChange, error)

	FindLowStock(ctx context.Context, storeID uuid.UUID) ([]domain.StockLevel, error)

	SoftDelete(ctx context.Context, itemID uuid.UUID) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	Exists(ctx context.Context, itemID uuid.UUID) (bool, error)
	Count(ctx context.Context, storeID uuid.UUID) (int64, error)
}
