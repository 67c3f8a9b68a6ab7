// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCategory represents grocery item categories
type ItemCategory string

// Category constants
const (
	CategoryStaples   ItemCategory = "staples"
	CategoryProduce   ItemCategory = "produce"
	CategoryDairy     ItemCategory = "dairy"
	CategoryBakery    ItemCategory = "bakery"
	CategorySnacks    ItemCategory = "snacks"
	CategoryBeverages ItemCategory = "beverages"
	CategorySpices    ItemCategory = "spices"
	CategoryFrozen    ItemCategory = "frozen"
	CategoryHousehold ItemCategory = "household"
	CategoryPersonal  ItemCategory = "personal_care"
	CategoryBabyCare  ItemCategory = "baby_care"
	CategoryOther     ItemCategory = "other"
)

// InventoryItem represents a single grocery item in a store's inventory.
// StoreID is fixed at creation and never changes afterwards.
type InventoryItem struct {
	ID                uuid.UUID       `json:"id"`
	StoreID           uuid.UUID       `json:"store_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          ItemCategory    `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	SalesCount        int             `json:"sales_count"`
	ImageURL          string          `json:"image_url,omitempty"`
	Barcode           string          `json:"barcode,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	LastRestocked     *time.Time      `json:"last_restocked,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
}

// Validate performs domain validation on the inventory item
func (i *InventoryItem) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if i.StoreID == uuid.Nil {
		return fmt.Errorf("store_id is required")
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if i.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold cannot be negative")
	}
	if i.SalesCount < 0 {
		return fmt.Errorf("sales_count cannot be negative")
	}
	if i.Category == "" {
		i.Category = CategoryOther
	}
	return nil
}

// IsLowStock reports whether the item sits at or below its alert threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// PrepareForStorage prepares the item for database storage
func (i *InventoryItem) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// StockLevel is the post-mutation snapshot returned by an atomic quantity
// adjustment. The low-stock check runs against Quantity here, never against
// a separate re-read.
type StockLevel struct {
	ItemID            uuid.UUID `json:"item_id"`
	StoreID           uuid.UUID `json:"store_id"`
	Name              string    `json:"name"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	SalesCount        int       `json:"sales_count"`
}

// IsLowStock reports whether the post-adjustment quantity is at or below
// the alert threshold.
func (s *StockLevel) IsLowStock() bool {
	return s.Quantity <= s.LowStockThreshold
}

// StockChange captures the before/after quantities of a single inventory
// update. A restock is any transition where NewQuantity > OldQuantity.
type StockChange struct {
	ItemID      uuid.UUID `json:"item_id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
}

// IsRestock reports whether the change increased the on-hand quantity.
func (c *StockChange) IsRestock() bool {
	return c.NewQuantity > c.OldQuantity
}
