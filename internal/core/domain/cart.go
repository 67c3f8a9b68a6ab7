// internal/core/domain/cart.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart errors
var (
	ErrMixedStoreCart  = fmt.Errorf("cart items must all belong to the same store")
	ErrItemNotInCart   = fmt.Errorf("item is not in the cart")
	ErrInvalidQuantity = fmt.Errorf("quantity must be positive")
)

// CartItem is a line in a shopper's cart. ItemID references the
// InventoryItem; price and name are captured at add time.
type CartItem struct {
	ItemID   uuid.UUID       `json:"item_id"`
	StoreID  uuid.UUID       `json:"store_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// Subtotal returns price multiplied by quantity for this line.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is a shopper's pre-checkout selection. Total is maintained
// incrementally on every mutation rather than recomputed from the items, so
// every mutator below must adjust it by the exact delta it introduces.
type Cart struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewCart returns an empty cart with a zero total.
func NewCart() *Cart {
	return &Cart{Total: decimal.Zero}
}

// AddItem adds an item to the cart. When a line with the same item id
// already exists the quantities are merged. All lines must share one store.
func (c *Cart) AddItem(item CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if len(c.Items) > 0 && c.Items[0].StoreID != item.StoreID {
		return ErrMixedStoreCart
	}

	for i := range c.Items {
		if c.Items[i].ItemID == item.ItemID {
			c.Items[i].Quantity += item.Quantity
			c.Total = c.Total.Add(item.Subtotal())
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, item)
	c.Total = c.Total.Add(item.Subtotal())
	c.touch()
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// removes the line.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].ItemID != itemID {
			continue
		}

		old := c.Items[i].Subtotal()
		if quantity == 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Total = c.Total.Sub(old)
			c.touch()
			return nil
		}

		c.Items[i].Quantity = quantity
		c.Total = c.Total.Sub(old).Add(c.Items[i].Subtotal())
		c.touch()
		return nil
	}

	return ErrItemNotInCart
}

// RemoveItem removes a line from the cart. Removing an absent item is a
// no-op.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Total = c.Total.Sub(c.Items[i].Subtotal())
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return
		}
	}
}

// Clear resets the cart to empty with a zero total.
func (c *Cart) Clear() {
	c.Items = nil
	c.Total = decimal.Zero
	c.touch()
}

// StoreID returns the store all cart lines belong to, or uuid.Nil for an
// empty cart.
func (c *Cart) StoreID() uuid.UUID {
	if len(c.Items) == 0 {
		return uuid.Nil
	}
	return c.Items[0].StoreID
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Sum recomputes the total from scratch. It exists so tests can check the
// incrementally maintained Total against the true sum; production code
// reads Total.
func (c *Cart) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// UnitCount returns the total number of units across all lines.
func (c *Cart) UnitCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
