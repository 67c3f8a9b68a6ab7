package domain_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

func TestOrder_Validate(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	items := []domain.CartItem{
		line(storeID, "Basmati Rice 5kg", 450, 1),
		line(storeID, "Toor Dal 1kg", 120, 2),
	}
	total := decimal.NewFromInt(690)

	t.Run("valid_order", func(t *testing.T) {
		order := domain.NewOrder(userID, storeID, items, total)
		require.NoError(t, order.Validate())
		assert.Equal(t, domain.OrderPending, order.Status)
		assert.Equal(t, 3, order.UnitCount())
	})

	t.Run("empty_order_rejected", func(t *testing.T) {
		order := domain.NewOrder(userID, storeID, nil, decimal.Zero)
		err := order.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("total_mismatch_rejected", func(t *testing.T) {
		order := domain.NewOrder(userID, storeID, items, decimal.NewFromInt(500))
		err := order.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("mixed_store_items_rejected", func(t *testing.T) {
		mixed := append([]domain.CartItem{}, items...)
		mixed = append(mixed, line(uuid.New(), "Bread", 40, 1))
		order := domain.NewOrder(userID, storeID, mixed, decimal.NewFromInt(730))
		assert.ErrorIs(t, order.Validate(), domain.ErrMixedStoreCart)
	})

	t.Run("zero_quantity_line_rejected", func(t *testing.T) {
		bad := []domain.CartItem{line(storeID, "Bread", 40, 0)}
		order := domain.NewOrder(userID, storeID, bad, decimal.Zero)
		assert.ErrorIs(t, order.Validate(), domain.ErrInvalidQuantity)
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{domain.OrderPending, domain.OrderProcessing, true},
		{domain.OrderPending, domain.OrderConfirmed, true},
		{domain.OrderPending, domain.OrderCancelled, true},
		{domain.OrderProcessing, domain.OrderPending, false},
		{domain.OrderConfirmed, domain.OrderCompleted, true},
		{domain.OrderConfirmed, domain.OrderProcessing, false},
		{domain.OrderCompleted, domain.OrderCancelled, false},
		{domain.OrderCancelled, domain.OrderPending, false},
		{domain.OrderPending, domain.OrderStatus("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewSalesRecord(t *testing.T) {
	storeID := uuid.New()
	items := []domain.CartItem{
		line(storeID, "Basmati Rice 5kg", 450, 1),
		line(storeID, "Toor Dal 1kg", 120, 2),
	}
	order := domain.NewOrder(uuid.New(), storeID, items, decimal.NewFromInt(690))

	record := domain.NewSalesRecord(order)

	assert.Equal(t, order.ID, record.OrderID)
	assert.Equal(t, storeID, record.StoreID)
	assert.True(t, record.TotalAmount.Equal(order.Total))
	assert.Equal(t, 3, record.Quantity)
	assert.Len(t, record.Items, 2)
}

func TestNewOrderNotification(t *testing.T) {
	storeID := uuid.New()
	order := domain.NewOrder(uuid.New(), storeID, []domain.CartItem{
		line(storeID, "Bread", 40, 1),
	}, decimal.NewFromInt(40))

	n := domain.NewOrderNotification(storeID, order)

	assert.Equal(t, storeID, n.UserID)
	assert.Equal(t, domain.NotificationOrder, n.Type)
	assert.False(t, n.Read)
	assert.Equal(t, fmt.Sprintf("New order #%s received", order.ID.String()[:8]), n.Message)
}

func TestNewLowStockNotification(t *testing.T) {
	storeID := uuid.New()
	level := &domain.StockLevel{
		ItemID:            uuid.New(),
		StoreID:           storeID,
		Name:              "Amul Milk 500ml",
		Quantity:          3,
		LowStockThreshold: 5,
	}

	n := domain.NewLowStockNotification(level)

	assert.Equal(t, storeID, n.UserID)
	assert.Equal(t, domain.NotificationStock, n.Type)
	assert.Equal(t, "Item Amul Milk 500ml is running low on stock (3 remaining)", n.Message)
}
