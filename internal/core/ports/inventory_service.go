// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

// InventoryService defines the application service port for inventory.
// This interface is implemented by the application service.
type InventoryService interface {
	SaveItem(ctx context.Context, item *domain.InventoryItem) error
	SaveItems(ctx context.Context, items []domain.InventoryItem) error
	GetByID(ctx context.Context, itemID uuid.UUID) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, item *domain.InventoryItem) error
	SetImageURL(ctx context.Context, itemID uuid.UUID, url string) error
	Restock(ctx context.Context, itemID uuid.UUID, quantity int) (*domain.StockChange, error)
	AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (*domain.StockLevel, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID, permanent bool) error
	LowStock(ctx context.Context, storeID uuid.UUID) ([]domain.StockLevel, error)
	// Note: ListParams and ListResult live here to avoid circular dependencies.
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// ListParams holds parameters for listing inventory
type ListParams struct {
	StoreID   uuid.UUID
	Search    string
	Category  string
	LowStock  bool
	InStock   bool
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult holds the result of listing inventory
type ListResult struct {
	Items      []*domain.InventoryItem `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalCount int64                   `json:"total_count"`
	TotalPages int                     `json:"total_pages"`
}
