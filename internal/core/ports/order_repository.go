// internal/core/ports/order_repository.go
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// OrderRepository defines the persistence port for orders. PlaceOrder is the
// checkout write path: it decrements stock for every line, inserts the order,
// its sales record and the store notification in one transaction, and rolls
// the whole thing back if any line cannot be satisfied.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *domain.Order, sale *domain.SalesRecord, notification *domain.Notification) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	SavePayment(ctx context.Context, payment *domain.Payment) error
}

// SalesRepository reads the immutable sales ledger for analytics.
type SalesRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]domain.SalesRecord, error)
	Summary(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*domain.SalesSummary, error)
}
