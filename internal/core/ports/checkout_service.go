// internal/core/ports/checkout_service.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

// CheckoutService defines the application service port for order placement
// and payment confirmation.
type CheckoutService interface {
	// PlaceOrder validates the submitted cart, atomically decrements stock
	// for every line and records the order. On success the caller's saved
	// cart has been cleared.
	PlaceOrder(ctx context.Context, userID uuid.UUID, items []domain.CartItem, total decimal.Decimal) (*domain.Order, error)

	// PaymentParams builds the gateway checkout parameters for a pending
	// order so the client can open the payment flow.
	PaymentParams(ctx context.Context, orderID uuid.UUID, name, email, contact string) (*CheckoutParams, error)

	// ConfirmPayment verifies the gateway signature and moves the order to
	// confirmed.
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, gatewayPaymentID, signature string) error

	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error)
	ListStoreOrders(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
}

// CartService defines the application service port for the shopper's cart.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// NotificationService defines the application service port for in-app
// notifications and restock subscriptions.
type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	Subscribe(ctx context.Context, itemID, userID uuid.UUID) error
	Unsubscribe(ctx context.Context, itemID, userID uuid.UUID) error
}
