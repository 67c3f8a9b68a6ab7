// internal/handlers/orders.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/handlers/middleware"
)

// OrderHandler handles checkout, payment confirmation and order queries
type OrderHandler struct {
	service ports.CheckoutService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service ports.CheckoutService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "orders")),
	}
}

// Checkout handles POST /api/v1/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.PlaceOrder(ctx, userID, req.ToCartItems(), req.Total)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrInsufficientStock):
			h.respondError(w, http.StatusConflict, "One or more items are out of stock")
		case errors.Is(err, ports.ErrItemNotFound):
			h.respondError(w, http.StatusNotFound, "One or more items no longer exist")
		case errors.Is(err, domain.ErrMixedStoreCart):
			h.respondError(w, http.StatusBadRequest, "All items must belong to one store")
		default:
			h.logger.ErrorContext(ctx, "checkout failed",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Checkout failed")
		}
		return
	}

	h.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("total", order.Total.String()))

	h.respondJSON(w, http.StatusCreated, order)
}

// PaymentParams handles GET /api/v1/orders/{id}/payment
func (h *OrderHandler) PaymentParams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	q := r.URL.Query()
	params, err := h.service.PaymentParams(ctx, orderID, q.Get("name"), q.Get("email"), q.Get("contact"))
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			h.respondError(w, http.StatusNotFound, "Order not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to build payment params",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to prepare payment")
		return
	}

	h.respondJSON(w, http.StatusOK, params)
}

// ConfirmPayment handles POST /api/v1/orders/{id}/payment/confirm
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.PaymentID == "" || req.Signature == "" {
		h.respondError(w, http.StatusBadRequest, "payment_id and signature are required")
		return
	}

	if err := h.service.ConfirmPayment(ctx, orderID, req.PaymentID, req.Signature); err != nil {
		switch {
		case errors.Is(err, ports.ErrOrderNotFound):
			h.respondError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, ports.ErrSignatureMismatch):
			h.respondError(w, http.StatusBadRequest, "Payment verification failed")
		case errors.Is(err, ports.ErrInvalidTransition):
			h.respondError(w, http.StatusConflict, "Order cannot accept a payment in its current state")
		default:
			h.logger.ErrorContext(ctx, "payment confirmation failed",
				slog.String("order_id", orderID.String()),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Payment confirmation failed")
		}
		return
	}

	h.logger.InfoContext(ctx, "payment confirmed",
		slog.String("order_id", orderID.String()))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"order_id": orderID.String(),
		"status":   string(domain.OrderConfirmed),
	})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.service.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			h.respondError(w, http.StatusNotFound, "Order not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get order",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

// ListOrders handles GET /api/v1/orders for the authenticated user
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, offset := parsePagination(r)

	orders, err := h.service.ListUserOrders(ctx, userID, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list user orders",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// ListStoreOrders handles GET /api/v1/stores/{id}/orders
func (h *OrderHandler) ListStoreOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	limit, offset := parsePagination(r)

	orders, err := h.service.ListStoreOrders(ctx, storeID, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list store orders",
			slog.String("store_id", storeID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateStatus handles PATCH /api/v1/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		h.respondError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	if err := h.service.UpdateOrderStatus(ctx, orderID, status); err != nil {
		switch {
		case errors.Is(err, ports.ErrOrderNotFound):
			h.respondError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, ports.ErrInvalidTransition):
			h.respondError(w, http.StatusConflict, "Invalid status transition")
		default:
			h.logger.ErrorContext(ctx, "failed to update order status",
				slog.String("order_id", orderID.String()),
				slog.String("status", req.Status),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}

	h.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID.String()),
		slog.String("status", req.Status))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"order_id": orderID.String(),
		"status":   req.Status,
	})
}

// parsePagination reads limit/offset query parameters with sane bounds
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			if v > 100 {
				v = 100
			}
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func (h *OrderHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *OrderHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request DTOs

// CheckoutLine is one submitted cart line
type CheckoutLine struct {
	ItemID   uuid.UUID       `json:"item_id"`
	StoreID  uuid.UUID       `json:"store_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CheckoutRequest represents the request body for placing an order. The
// client submits its cart and total; the server revalidates both.
type CheckoutRequest struct {
	Items []CheckoutLine  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Validate validates the checkout request
func (r *CheckoutRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("cart is empty")
	}
	for _, line := range r.Items {
		if line.ItemID == uuid.Nil {
			return fmt.Errorf("item_id is required on every line")
		}
		if line.Quantity < 1 {
			return fmt.Errorf("quantity must be positive")
		}
	}
	return nil
}

// ToCartItems converts the submitted lines to domain cart items
func (r *CheckoutRequest) ToCartItems() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(r.Items))
	for _, line := range r.Items {
		items = append(items, domain.CartItem{
			ItemID:   line.ItemID,
			StoreID:  line.StoreID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}
	return items
}

// ConfirmPaymentRequest represents the gateway callback payload
type ConfirmPaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
