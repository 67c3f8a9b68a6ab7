// internal/core/services/checkout_service_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/core/services"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

type checkoutMocks struct {
	orders  *mocks.MockOrderRepository
	carts   *mocks.MockCartStore
	gateway *mocks.MockPaymentGateway
}

func newCheckoutService(t *testing.T) (*services.CheckoutService, *checkoutMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &checkoutMocks{
		orders:  mocks.NewMockOrderRepository(ctrl),
		carts:   mocks.NewMockCartStore(ctrl),
		gateway: mocks.NewMockPaymentGateway(ctrl),
	}

	svc := services.NewCheckoutService(m.orders, m.carts, m.gateway, helpers.TestLogger())
	return svc, m
}

func testCartLines(storeID uuid.UUID) []domain.CartItem {
	return []domain.CartItem{
		{ItemID: uuid.New(), StoreID: storeID, Name: "Basmati Rice 5kg", Price: decimal.NewFromInt(450), Quantity: 1},
		{ItemID: uuid.New(), StoreID: storeID, Name: "Toor Dal 1kg", Price: decimal.NewFromInt(120), Quantity: 2},
	}
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	t.Run("successful_checkout_writes_order_sale_and_notification", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		items := testCartLines(storeID)
		total := decimal.NewFromInt(690)

		m.orders.EXPECT().
			PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, order *domain.Order, sale *domain.SalesRecord, n *domain.Notification) error {
				assert.Equal(t, userID, order.UserID)
				assert.Equal(t, storeID, order.StoreID)
				assert.Equal(t, domain.OrderPending, order.Status)
				assert.Equal(t, order.ID, sale.OrderID)
				assert.Equal(t, 3, sale.Quantity)
				assert.Equal(t, storeID, n.UserID)
				assert.Contains(t, n.Message, "New order #")
				return nil
			})

		m.carts.EXPECT().Clear(gomock.Any(), userID).Return(nil)

		order, err := svc.PlaceOrder(context.Background(), userID, items, total)
		require.NoError(t, err)
		assert.True(t, order.Total.Equal(total))
	})

	t.Run("empty_cart_rejected", func(t *testing.T) {
		svc, _ := newCheckoutService(t)

		_, err := svc.PlaceOrder(context.Background(), userID, nil, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("total_mismatch_rejected_before_any_write", func(t *testing.T) {
		svc, _ := newCheckoutService(t)
		items := testCartLines(storeID)

		_, err := svc.PlaceOrder(context.Background(), userID, items, decimal.NewFromInt(999))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("mixed_store_cart_rejected", func(t *testing.T) {
		svc, _ := newCheckoutService(t)
		items := testCartLines(storeID)
		items = append(items, domain.CartItem{
			ItemID: uuid.New(), StoreID: uuid.New(), Name: "Bread",
			Price: decimal.NewFromInt(40), Quantity: 1,
		})

		_, err := svc.PlaceOrder(context.Background(), userID, items, decimal.NewFromInt(730))
		assert.ErrorIs(t, err, domain.ErrMixedStoreCart)
	})

	t.Run("insufficient_stock_rolls_back_and_surfaces", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		items := testCartLines(storeID)

		m.orders.EXPECT().
			PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(ports.ErrInsufficientStock)

		_, err := svc.PlaceOrder(context.Background(), userID, items, decimal.NewFromInt(690))
		assert.ErrorIs(t, err, ports.ErrInsufficientStock)
	})

	t.Run("cart_clear_failure_does_not_fail_checkout", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		items := testCartLines(storeID)

		m.orders.EXPECT().
			PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		m.carts.EXPECT().Clear(gomock.Any(), userID).Return(assert.AnError)

		_, err := svc.PlaceOrder(context.Background(), userID, items, decimal.NewFromInt(690))
		require.NoError(t, err)
	})
}

func TestCheckoutService_ConfirmPayment(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	newPendingOrder := func() *domain.Order {
		return helpers.CreateTestOrder(userID, testCartLines(storeID))
	}

	t.Run("valid_signature_confirms_order", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := newPendingOrder()

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().
			VerifySignature(order.ID.String(), "pay_123", "sig").
			Return(nil)
		m.orders.EXPECT().
			SavePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *domain.Payment) error {
				assert.Equal(t, order.ID, p.OrderID)
				assert.Equal(t, "INR", p.Currency)
				assert.Equal(t, "pay_123", p.GatewayPaymentID)
				return nil
			})
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), order.ID, domain.OrderConfirmed).
			Return(nil)

		err := svc.ConfirmPayment(context.Background(), order.ID, "pay_123", "sig")
		require.NoError(t, err)
	})

	t.Run("signature_mismatch_leaves_order_untouched", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := newPendingOrder()

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().
			VerifySignature(order.ID.String(), "pay_123", "bad").
			Return(ports.ErrSignatureMismatch)

		err := svc.ConfirmPayment(context.Background(), order.ID, "pay_123", "bad")
		assert.ErrorIs(t, err, ports.ErrSignatureMismatch)
	})

	t.Run("unknown_order", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		orderID := uuid.New()

		m.orders.EXPECT().FindByID(gomock.Any(), orderID).Return(nil, nil)

		err := svc.ConfirmPayment(context.Background(), orderID, "pay_123", "sig")
		assert.ErrorIs(t, err, ports.ErrOrderNotFound)
	})
}

func TestCheckoutService_UpdateOrderStatus(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	t.Run("forward_transition_allowed", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := helpers.CreateTestOrder(userID, testCartLines(storeID))

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), order.ID, domain.OrderProcessing).
			Return(nil)

		err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderProcessing)
		require.NoError(t, err)
	})

	t.Run("backward_transition_rejected", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := helpers.CreateTestOrder(userID, testCartLines(storeID))
		order.Status = domain.OrderConfirmed

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

		err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderPending)
		assert.ErrorIs(t, err, ports.ErrInvalidTransition)
	})

	t.Run("terminal_order_cannot_move", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := helpers.CreateTestOrder(userID, testCartLines(storeID))
		order.Status = domain.OrderCancelled

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

		err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderCompleted)
		assert.ErrorIs(t, err, ports.ErrInvalidTransition)
	})
}

func TestCheckoutService_PaymentParams(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	t.Run("builds_params_for_pending_order", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := helpers.CreateTestOrder(userID, testCartLines(storeID))

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)
		m.gateway.EXPECT().
			BuildCheckout(order.ID.String(), gomock.Any(), "Asha", "asha@example.com", "9999999999").
			Return(&ports.CheckoutParams{
				Amount:   69000,
				Currency: "INR",
				OrderRef: order.ID.String(),
			})

		params, err := svc.PaymentParams(context.Background(), order.ID, "Asha", "asha@example.com", "9999999999")
		require.NoError(t, err)
		assert.Equal(t, int64(69000), params.Amount)
		assert.Equal(t, "INR", params.Currency)
	})

	t.Run("confirmed_order_rejected", func(t *testing.T) {
		svc, m := newCheckoutService(t)
		order := helpers.CreateTestOrder(userID, testCartLines(storeID))
		order.Status = domain.OrderConfirmed

		m.orders.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

		_, err := svc.PaymentParams(context.Background(), order.ID, "", "", "")
		require.Error(t, err)
	})
}
