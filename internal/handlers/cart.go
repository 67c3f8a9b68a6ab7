// internal/handlers/cart.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/handlers/middleware"
)

// CartHandler handles the shopper's cart endpoints. The cart always belongs
// to the authenticated user; item ids come from the path or body.
type CartHandler struct {
	service ports.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service ports.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "cart")),
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	cart, err := h.service.GetCart(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load cart",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	h.respondJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ItemID == uuid.Nil {
		h.respondError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	if req.Quantity < 1 {
		h.respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	cart, err := h.service.AddItem(ctx, userID, req.ItemID, req.Quantity)
	if err != nil {
		h.handleCartError(w, r, err, req.ItemID)
		return
	}

	h.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID.String()),
		slog.String("item_id", req.ItemID.String()),
		slog.Int("quantity", req.Quantity))

	h.respondJSON(w, http.StatusOK, cart)
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Quantity < 0 {
		h.respondError(w, http.StatusBadRequest, "quantity cannot be negative")
		return
	}

	cart, err := h.service.UpdateQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		h.handleCartError(w, r, err, itemID)
		return
	}

	h.respondJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	cart, err := h.service.RemoveItem(ctx, userID, itemID)
	if err != nil {
		h.handleCartError(w, r, err, itemID)
		return
	}

	h.respondJSON(w, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.ClearCart(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "failed to clear cart",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

// handleCartError maps cart service errors to HTTP status codes
func (h *CartHandler) handleCartError(w http.ResponseWriter, r *http.Request, err error, itemID uuid.UUID) {
	switch {
	case errors.Is(err, ports.ErrItemNotFound):
		h.respondError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, ports.ErrInsufficientStock):
		h.respondError(w, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, domain.ErrMixedStoreCart):
		h.respondError(w, http.StatusConflict, "Cart can only contain items from one store")
	case errors.Is(err, domain.ErrItemNotInCart):
		h.respondError(w, http.StatusNotFound, "Item is not in the cart")
	case errors.Is(err, domain.ErrInvalidQuantity):
		h.respondError(w, http.StatusBadRequest, "quantity must be positive")
	default:
		h.logger.ErrorContext(r.Context(), "cart operation failed",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Cart operation failed")
	}
}

func (h *CartHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *CartHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request DTOs

// AddCartItemRequest represents the request body for adding a cart line
type AddCartItemRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// UpdateCartItemRequest represents the request body for changing a line's
// quantity. Zero removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
