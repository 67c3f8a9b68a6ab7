// internal/handlers/orders_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/handlers"
	"github.com/kiranakart/kirana-be/internal/handlers/middleware"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

// authedRequest builds a request carrying claims for the given user
func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	claims := &middleware.Claims{UserID: userID, Role: domain.RoleCustomer}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func checkoutBody(t *testing.T, storeID uuid.UUID) ([]byte, []domain.CartItem, decimal.Decimal) {
	t.Helper()

	itemID := uuid.New()
	price := decimal.RequireFromString("28.00")
	total := price.Mul(decimal.NewFromInt(2))

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"item_id":  itemID,
				"store_id": storeID,
				"name":     "Tata Salt 1kg",
				"price":    price,
				"quantity": 2,
			},
		},
		"total": total,
	}

	b, err := json.Marshal(body)
	require.NoError(t, err)

	items := []domain.CartItem{
		{ItemID: itemID, StoreID: storeID, Name: "Tata Salt 1kg", Price: price, Quantity: 2},
	}
	return b, items, total
}

func TestOrderHandler_Checkout(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	tests := []struct {
		name           string
		userID         uuid.UUID
		setupMocks     func(*mocks.MockCheckoutService, []domain.CartItem, decimal.Decimal)
		expectedStatus int
	}{
		{
			name:   "successfully_places_order",
			userID: userID,
			setupMocks: func(m *mocks.MockCheckoutService, items []domain.CartItem, total decimal.Decimal) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), userID, gomock.Any(), gomock.Any()).
					Return(domain.NewOrder(userID, storeID, items, total), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "out_of_stock_conflicts",
			userID: userID,
			setupMocks: func(m *mocks.MockCheckoutService, items []domain.CartItem, total decimal.Decimal) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), userID, gomock.Any(), gomock.Any()).
					Return(nil, ports.ErrInsufficientStock)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unauthenticated_rejected",
			userID:         uuid.Nil,
			setupMocks:     func(m *mocks.MockCheckoutService, items []domain.CartItem, total decimal.Decimal) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockCheckoutService(ctrl)
			handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

			body, items, total := checkoutBody(t, storeID)
			tt.setupMocks(mockService, items, total)

			var req *http.Request
			if tt.userID == uuid.Nil {
				req = httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(body))
			} else {
				req = authedRequest("POST", "/api/v1/checkout", body, tt.userID)
			}
			w := httptest.NewRecorder()

			handler.Checkout(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_Checkout_EmptyCartRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockCheckoutService(ctrl)
	handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

	body := []byte(`{"items": [], "total": "0"}`)
	req := authedRequest("POST", "/api/v1/checkout", body, uuid.New())
	w := httptest.NewRecorder()

	handler.Checkout(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_ConfirmPayment(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockCheckoutService)
		expectedStatus int
	}{
		{
			name: "successfully_confirms",
			body: `{"payment_id": "pay_abc123", "signature": "deadbeef"}`,
			setupMocks: func(m *mocks.MockCheckoutService) {
				m.EXPECT().
					ConfirmPayment(gomock.Any(), orderID, "pay_abc123", "deadbeef").
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "signature_mismatch_rejected",
			body: `{"payment_id": "pay_abc123", "signature": "forged"}`,
			setupMocks: func(m *mocks.MockCheckoutService) {
				m.EXPECT().
					ConfirmPayment(gomock.Any(), orderID, "pay_abc123", "forged").
					Return(ports.ErrSignatureMismatch)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "already_confirmed_conflicts",
			body: `{"payment_id": "pay_abc123", "signature": "deadbeef"}`,
			setupMocks: func(m *mocks.MockCheckoutService) {
				m.EXPECT().
					ConfirmPayment(gomock.Any(), orderID, "pay_abc123", "deadbeef").
					Return(ports.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing_signature_rejected",
			body:           `{"payment_id": "pay_abc123"}`,
			setupMocks:     func(m *mocks.MockCheckoutService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockCheckoutService(ctrl)
			handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/orders/"+orderID.String()+"/payment/confirm", bytes.NewReader([]byte(tt.body)))
			req.SetPathValue("id", orderID.String())
			w := httptest.NewRecorder()

			handler.ConfirmPayment(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockCheckoutService)
		expectedStatus int
	}{
		{
			name: "successfully_updates",
			body: `{"status": "completed"}`,
			setupMocks: func(m *mocks.MockCheckoutService) {
				m.EXPECT().
					UpdateOrderStatus(gomock.Any(), orderID, domain.OrderCompleted).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "backwards_transition_conflicts",
			body: `{"status": "pending"}`,
			setupMocks: func(m *mocks.MockCheckoutService) {
				m.EXPECT().
					UpdateOrderStatus(gomock.Any(), orderID, domain.OrderPending).
					Return(ports.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown_status_rejected",
			body:           `{"status": "teleported"}`,
			setupMocks:     func(m *mocks.MockCheckoutService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockCheckoutService(ctrl)
			handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("PATCH", "/api/v1/orders/"+orderID.String()+"/status", bytes.NewReader([]byte(tt.body)))
			req.SetPathValue("id", orderID.String())
			w := httptest.NewRecorder()

			handler.UpdateStatus(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockCheckoutService(ctrl)
	handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

	userID := uuid.New()

	mockService.EXPECT().
		ListUserOrders(gomock.Any(), userID, 20, 0).
		Return([]domain.Order{}, nil)

	req := authedRequest("GET", "/api/v1/orders", nil, userID)
	w := httptest.NewRecorder()

	handler.ListOrders(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
