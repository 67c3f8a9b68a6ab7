// internal/core/domain/notification.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationOrder NotificationType = "order"
	NotificationStock NotificationType = "stock"
	NotificationPrice NotificationType = "price"
)

// Notification is an in-app message. Read starts false and flips to true at
// most once; notifications are never deleted by their recipient.
//
// Stock and order notifications are addressed to the store, so UserID holds
// the store id for those types.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

func newNotification(userID uuid.UUID, title, message string, typ NotificationType) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		Read:      false,
		CreatedAt: time.Now(),
	}
}

// NewOrderNotification builds the message sent to a store owner when an
// order is placed.
func NewOrderNotification(storeID uuid.UUID, order *Order) *Notification {
	return newNotification(
		storeID,
		"New Order",
		fmt.Sprintf("New order #%s received", order.ShortID()),
		NotificationOrder,
	)
}

// NewLowStockNotification builds the alert sent to a store when an item
// crosses its low-stock threshold.
func NewLowStockNotification(level *StockLevel) *Notification {
	return newNotification(
		level.StoreID,
		"Low Stock Alert",
		fmt.Sprintf("Item %s is running low on stock (%d remaining)", level.Name, level.Quantity),
		NotificationStock,
	)
}

// Subscription registers a customer's interest in restocks of one item.
// One row exists per (item, user) pair.
type Subscription struct {
	ItemID    uuid.UUID `json:"item_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
