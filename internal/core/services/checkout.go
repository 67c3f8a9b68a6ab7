// internal/core/services/checkout.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// CheckoutService handles order placement and payment confirmation.
type CheckoutService struct {
	orders  ports.OrderRepository
	carts   ports.CartStore
	gateway ports.PaymentGateway
	logger  *slog.Logger
}

var _ ports.CheckoutService = (*CheckoutService)(nil)

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders ports.OrderRepository,
	carts ports.CartStore,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:  orders,
		carts:   carts,
		gateway: gateway,
		logger:  logger.With(slog.String("service", "checkout")),
	}
}

// PlaceOrder validates the submitted cart and commits the checkout in one
// transaction: stock decrement for every line, the order row, its sales
// ledger entry and the store notification all land together or not at all.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, items []domain.CartItem, total decimal.Decimal) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	order := domain.NewOrder(userID, items[0].StoreID, items, total)
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	sale := domain.NewSalesRecord(order)
	notification := domain.NewOrderNotification(order.StoreID, order)

	if err := s.orders.PlaceOrder(ctx, order, sale, notification); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("store_id", order.StoreID.String()),
		slog.String("total", order.Total.String()),
		slog.Int("units", order.UnitCount()))

	// The order is durable; a stale saved cart is recoverable, so a clear
	// failure only logs.
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}

	return order, nil
}

// PaymentParams builds the gateway checkout parameters for a pending order.
func (s *CheckoutService) PaymentParams(ctx context.Context, orderID uuid.UUID, name, email, contact string) (*ports.CheckoutParams, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderPending && order.Status != domain.OrderProcessing {
		return nil, fmt.Errorf("order %s is not awaiting payment", order.ShortID())
	}

	return s.gateway.BuildCheckout(order.ID.String(), order.Total, name, email, contact), nil
}

// ConfirmPayment verifies the gateway callback signature, records the
// payment and moves the order to confirmed.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, gatewayPaymentID, signature string) error {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.gateway.VerifySignature(order.ID.String(), gatewayPaymentID, signature); err != nil {
		s.logger.WarnContext(ctx, "payment signature rejected",
			slog.String("order_id", orderID.String()),
			slog.String("gateway_payment_id", gatewayPaymentID))
		return err
	}

	payment := &domain.Payment{
		ID:               uuid.New(),
		OrderID:          order.ID,
		Amount:           order.Total,
		Currency:         "INR",
		Method:           "razorpay",
		Status:           "captured",
		GatewayPaymentID: gatewayPaymentID,
	}

	if err := s.orders.SavePayment(ctx, payment); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderConfirmed); err != nil {
		return fmt.Errorf("failed to confirm order: %w", err)
	}

	s.logger.InfoContext(ctx, "payment confirmed",
		slog.String("order_id", orderID.String()),
		slog.String("gateway_payment_id", gatewayPaymentID))

	return nil
}

// GetOrder retrieves an order by ID.
func (s *CheckoutService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, ports.ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders returns a customer's order history, newest first.
func (s *CheckoutService) ListUserOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	orders, err := s.orders.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

// ListStoreOrders returns a store's incoming orders, newest first.
func (s *CheckoutService) ListStoreOrders(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	orders, err := s.orders.FindByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list store orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order through its lifecycle, enforcing
// forward-only transitions.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ports.ErrInvalidTransition, order.Status, status)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID.String()),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)))

	return nil
}
