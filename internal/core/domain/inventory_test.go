package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

func TestInventoryItem_Validate(t *testing.T) {
	storeID := uuid.New()

	tests := []struct {
		name      string
		item      *domain.InventoryItem
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_item_with_all_fields",
			item: &domain.InventoryItem{
				StoreID:           storeID,
				Name:              "Basmati Rice 5kg",
				Category:          domain.CategoryStaples,
				Price:             decimal.NewFromFloat(450),
				Quantity:          20,
				LowStockThreshold: 5,
			},
			wantError: false,
		},
		{
			name: "missing_name",
			item: &domain.InventoryItem{
				StoreID:  storeID,
				Price:    decimal.NewFromFloat(50),
				Quantity: 10,
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "missing_store_id",
			item: &domain.InventoryItem{
				Name:     "Toor Dal 1kg",
				Price:    decimal.NewFromFloat(120),
				Quantity: 10,
			},
			wantError: true,
			errorMsg:  "store_id is required",
		},
		{
			name: "negative_price",
			item: &domain.InventoryItem{
				StoreID:  storeID,
				Name:     "Toor Dal 1kg",
				Price:    decimal.NewFromFloat(-120),
				Quantity: 10,
			},
			wantError: true,
			errorMsg:  "price cannot be negative",
		},
		{
			name: "negative_quantity",
			item: &domain.InventoryItem{
				StoreID:  storeID,
				Name:     "Toor Dal 1kg",
				Price:    decimal.NewFromFloat(120),
				Quantity: -3,
			},
			wantError: true,
			errorMsg:  "quantity cannot be negative",
		},
		{
			name: "negative_threshold",
			item: &domain.InventoryItem{
				StoreID:           storeID,
				Name:              "Toor Dal 1kg",
				Price:             decimal.NewFromFloat(120),
				Quantity:          10,
				LowStockThreshold: -1,
			},
			wantError: true,
			errorMsg:  "low_stock_threshold cannot be negative",
		},
		{
			name: "sets_default_category_when_empty",
			item: &domain.InventoryItem{
				StoreID:  storeID,
				Name:     "Toor Dal 1kg",
				Price:    decimal.NewFromFloat(120),
				Quantity: 10,
				Category: "",
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()

			if tt.wantError {
				require.Error(t, err)
				if tt.errorMsg != "" {
					assert.Contains(t, err.Error(), tt.errorMsg)
				}
			} else {
				require.NoError(t, err)
				if tt.name == "sets_default_category_when_empty" {
					assert.Equal(t, domain.CategoryOther, tt.item.Category)
				}
			}
		})
	}
}

func TestInventoryItem_IsLowStock(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      bool
	}{
		{name: "well_above_threshold", quantity: 20, threshold: 5, want: false},
		{name: "just_above_threshold", quantity: 6, threshold: 5, want: false},
		{name: "exactly_at_threshold", quantity: 5, threshold: 5, want: true},
		{name: "below_threshold", quantity: 2, threshold: 5, want: true},
		{name: "zero_quantity", quantity: 0, threshold: 5, want: true},
		{name: "zero_threshold_zero_quantity", quantity: 0, threshold: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &domain.InventoryItem{
				Quantity:          tt.quantity,
				LowStockThreshold: tt.threshold,
			}
			assert.Equal(t, tt.want, item.IsLowStock())

			level := &domain.StockLevel{
				Quantity:          tt.quantity,
				LowStockThreshold: tt.threshold,
			}
			assert.Equal(t, tt.want, level.IsLowStock())
		})
	}
}

func TestInventoryItem_PrepareForStorage(t *testing.T) {
	t.Run("generates_uuid_when_nil", func(t *testing.T) {
		item := &domain.InventoryItem{ID: uuid.Nil}

		item.PrepareForStorage()

		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.NotZero(t, item.CreatedAt)
		assert.NotZero(t, item.UpdatedAt)
	})

	t.Run("preserves_existing_uuid", func(t *testing.T) {
		existingID := uuid.New()
		item := &domain.InventoryItem{ID: existingID}

		item.PrepareForStorage()

		assert.Equal(t, existingID, item.ID)
	})
}

func TestStockChange_IsRestock(t *testing.T) {
	tests := []struct {
		name string
		old  int
		new  int
		want bool
	}{
		{name: "quantity_increased", old: 0, new: 25, want: true},
		{name: "quantity_increased_from_nonzero", old: 3, new: 10, want: true},
		{name: "quantity_unchanged", old: 10, new: 10, want: false},
		{name: "quantity_decreased", old: 10, new: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := &domain.StockChange{OldQuantity: tt.old, NewQuantity: tt.new}
			assert.Equal(t, tt.want, change.IsRestock())
		})
	}
}
