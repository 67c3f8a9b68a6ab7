// internal/handlers/cart_handler_test.go
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
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

func cartWith(items ...domain.CartItem) *domain.Cart {
	cart := domain.NewCart()
	for _, item := range items {
		_ = cart.AddItem(item)
	}
	return cart
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	storeID := uuid.New()

	line := domain.CartItem{
		ItemID:   itemID,
		StoreID:  storeID,
		Name:     "Amul Butter 500g",
		Price:    decimal.RequireFromString("295.00"),
		Quantity: 2,
	}

	tests := []struct {
		name           string
		body           string
		authed         bool
		setupMocks     func(*mocks.MockCartService)
		expectedStatus int
	}{
		{
			name:   "successfully_adds_item",
			body:   `{"item_id": "` + itemID.String() + `", "quantity": 2}`,
			authed: true,
			setupMocks: func(m *mocks.MockCartService) {
				m.EXPECT().
					AddItem(gomock.Any(), userID, itemID, 2).
					Return(cartWith(line), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "out_of_stock_conflicts",
			body:   `{"item_id": "` + itemID.String() + `", "quantity": 99}`,
			authed: true,
			setupMocks: func(m *mocks.MockCartService) {
				m.EXPECT().
					AddItem(gomock.Any(), userID, itemID, 99).
					Return(nil, ports.ErrInsufficientStock)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "mixed_store_conflicts",
			body:   `{"item_id": "` + itemID.String() + `", "quantity": 1}`,
			authed: true,
			setupMocks: func(m *mocks.MockCartService) {
				m.EXPECT().
					AddItem(gomock.Any(), userID, itemID, 1).
					Return(nil, domain.ErrMixedStoreCart)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "zero_quantity_rejected",
			body:           `{"item_id": "` + itemID.String() + `", "quantity": 0}`,
			authed:         true,
			setupMocks:     func(m *mocks.MockCartService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthenticated_rejected",
			body:           `{"item_id": "` + itemID.String() + `", "quantity": 1}`,
			authed:         false,
			setupMocks:     func(m *mocks.MockCartService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockCartService(ctrl)
			handler := handlers.NewCartHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			var req *http.Request
			if tt.authed {
				req = authedRequest("POST", "/api/v1/cart/items", []byte(tt.body), userID)
			} else {
				req = httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte(tt.body)))
			}
			w := httptest.NewRecorder()

			handler.AddItem(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCartHandler_GetCart_ReturnsRunningTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockCartService(ctrl)
	handler := handlers.NewCartHandler(mockService, helpers.TestLogger())

	userID := uuid.New()
	storeID := uuid.New()

	cart := cartWith(
		domain.CartItem{ItemID: uuid.New(), StoreID: storeID, Name: "Tata Salt 1kg", Price: decimal.RequireFromString("28.00"), Quantity: 2},
		domain.CartItem{ItemID: uuid.New(), StoreID: storeID, Name: "Parle-G 250g", Price: decimal.RequireFromString("25.00"), Quantity: 1},
	)

	mockService.EXPECT().
		GetCart(gomock.Any(), userID).
		Return(cart, nil)

	req := authedRequest("GET", "/api/v1/cart", nil, userID)
	w := httptest.NewRecorder()

	handler.GetCart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Items, 2)
	assert.True(t, response.Total.Equal(decimal.RequireFromString("81.00")))
}

func TestCartHandler_UpdateQuantity_RemovesLineAtZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockCartService(ctrl)
	handler := handlers.NewCartHandler(mockService, helpers.TestLogger())

	userID := uuid.New()
	itemID := uuid.New()

	mockService.EXPECT().
		UpdateQuantity(gomock.Any(), userID, itemID, 0).
		Return(domain.NewCart(), nil)

	req := authedRequest("PATCH", "/api/v1/cart/items/"+itemID.String(), []byte(`{"quantity": 0}`), userID)
	req.SetPathValue("id", itemID.String())
	w := httptest.NewRecorder()

	handler.UpdateQuantity(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Items)
}

func TestCartHandler_RemoveItem_NotInCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockCartService(ctrl)
	handler := handlers.NewCartHandler(mockService, helpers.TestLogger())

	userID := uuid.New()
	itemID := uuid.New()

	mockService.EXPECT().
		RemoveItem(gomock.Any(), userID, itemID).
		Return(nil, domain.ErrItemNotInCart)

	req := authedRequest("DELETE", "/api/v1/cart/items/"+itemID.String(), nil, userID)
	req.SetPathValue("id", itemID.String())
	w := httptest.NewRecorder()

	handler.RemoveItem(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
