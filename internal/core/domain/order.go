// internal/core/domain/order.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

// Order status constants. Transitions only ever move forward; a cancelled
// order is terminal.
const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderConfirmed:  2,
	OrderCompleted:  3,
	OrderCancelled:  4,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// transition. Cancellation is allowed from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	cur, ok := orderStatusRank[s]
	if !ok || !next.Valid() {
		return false
	}
	if s == OrderCompleted || s == OrderCancelled {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return orderStatusRank[next] > cur
}

// Order is a durable record of one checkout. Items and Total are frozen at
// creation time and never recomputed afterwards.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	PaymentID string          `json:"payment_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewOrder builds a pending order from a submitted cart.
func NewOrder(userID, storeID uuid.UUID, items []CartItem, total decimal.Decimal) *Order {
	now := time.Now()
	return &Order{
		ID:        uuid.New(),
		UserID:    userID,
		StoreID:   storeID,
		Items:     items,
		Total:     total,
		Status:    OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the checkout preconditions: a non-empty cart, a single
// store across all lines, positive quantities, and a submitted total that
// matches the sum of the lines exactly.
func (o *Order) Validate() error {
	if o.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	sum := decimal.Zero
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("item %s: %w", item.Name, ErrInvalidQuantity)
		}
		if item.StoreID != o.StoreID {
			return ErrMixedStoreCart
		}
		sum = sum.Add(item.Subtotal())
	}

	if !o.Total.Equal(sum) {
		return fmt.Errorf("submitted total %s does not match cart sum %s", o.Total, sum)
	}
	return nil
}

// UnitCount returns the total number of units across all order lines.
func (o *Order) UnitCount() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ShortID returns the truncated order id used in customer-facing messages.
func (o *Order) ShortID() string {
	return o.ID.String()[:8]
}

// SalesRecord is the immutable ledger entry written alongside an order.
// Exactly one exists per order.
type SalesRecord struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Quantity    int             `json:"quantity"`
	Date        time.Time       `json:"date"`
}

// NewSalesRecord derives the ledger entry for an order.
func NewSalesRecord(o *Order) *SalesRecord {
	return &SalesRecord{
		ID:          uuid.New(),
		OrderID:     o.ID,
		StoreID:     o.StoreID,
		Items:       o.Items,
		TotalAmount: o.Total,
		Quantity:    o.UnitCount(),
		Date:        time.Now(),
	}
}

// SalesSummary aggregates a store's sales for the dashboard.
type SalesSummary struct {
	StoreID      uuid.UUID       `json:"store_id"`
	Revenue      decimal.Decimal `json:"revenue"`
	OrderCount   int64           `json:"order_count"`
	UnitsSold    int64           `json:"units_sold"`
	TopItems     []TopItem       `json:"top_items"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// TopItem is one row of the best-sellers list.
type TopItem struct {
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	SalesCount int       `json:"sales_count"`
}

// Payment records one gateway transaction for an order.
type Payment struct {
	ID               uuid.UUID       `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Method           string          `json:"method"`
	Status           string          `json:"status"`
	GatewayPaymentID string          `json:"gateway_payment_id"`
	CreatedAt        time.Time       `json:"created_at"`
}
