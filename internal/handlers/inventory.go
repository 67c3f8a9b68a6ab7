// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// GetItem handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get inventory item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// ListItems handles GET /api/v1/inventory
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := h.parseListParams(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory items",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateItem handles POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain()

	if err := h.service.SaveItem(ctx, item); err != nil {
		h.logger.ErrorContext(ctx, "failed to create inventory item",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item created",
		slog.String("item_id", item.ID.String()),
		slog.String("item_name", item.Name))

	h.respondJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain()

	if err := h.service.UpdateItem(ctx, itemID, item); err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to update inventory item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	updated, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		// The update went through, return success without the body
		h.respondJSON(w, http.StatusOK, map[string]string{"message": "Item updated successfully"})
		return
	}

	h.logger.InfoContext(ctx, "inventory item updated",
		slog.String("item_id", idStr))

	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteItem handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"

	if err := h.service.DeleteItem(ctx, itemID, permanent); err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to delete inventory item",
			slog.String("item_id", idStr),
			slog.Bool("permanent", permanent),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("item_id", idStr),
		slog.Bool("permanent", permanent))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Item deleted successfully",
		"item_id":   idStr,
		"permanent": permanent,
	})
}

// RestockItem handles POST /api/v1/inventory/{id}/restock
func (h *InventoryHandler) RestockItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Quantity < 1 {
		h.respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	change, err := h.service.Restock(ctx, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to restock item",
			slog.String("item_id", idStr),
			slog.Int("quantity", req.Quantity),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to restock item")
		return
	}

	h.logger.InfoContext(ctx, "item restocked",
		slog.String("item_id", idStr),
		slog.Int("old_quantity", change.OldQuantity),
		slog.Int("new_quantity", change.NewQuantity))

	h.respondJSON(w, http.StatusOK, change)
}

// AdjustQuantity handles POST /api/v1/inventory/{id}/adjust
func (h *InventoryHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Delta == 0 {
		h.respondError(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}

	level, err := h.service.AdjustQuantity(ctx, itemID, req.Delta)
	if err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		if errors.Is(err, ports.ErrInsufficientStock) {
			h.respondError(w, http.StatusConflict, "Insufficient stock")
			return
		}

		h.logger.ErrorContext(ctx, "failed to adjust quantity",
			slog.String("item_id", idStr),
			slog.Int("delta", req.Delta),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to adjust quantity")
		return
	}

	h.respondJSON(w, http.StatusOK, level)
}

// LowStock handles GET /api/v1/stores/{id}/inventory/low-stock
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	storeID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	levels, err := h.service.LowStock(ctx, storeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list low stock items",
			slog.String("store_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list low stock items")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"store_id": storeID,
		"items":    levels,
		"count":    len(levels),
	})
}

// parseListParams parses query parameters for listing inventory
func (h *InventoryHandler) parseListParams(r *http.Request) (ports.ListParams, error) {
	params := ports.ListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if storeID := r.URL.Query().Get("store_id"); storeID != "" {
		id, err := uuid.Parse(storeID)
		if err != nil {
			return params, fmt.Errorf("invalid store_id")
		}
		params.StoreID = id
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = l
			}
		}
	}

	params.Search = r.URL.Query().Get("search")
	params.Category = r.URL.Query().Get("category")
	params.LowStock = r.URL.Query().Get("low_stock") == "true"
	params.InStock = r.URL.Query().Get("in_stock") == "true"

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}

	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params, nil
}

// Helper methods

func (h *InventoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *InventoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// CreateItemRequest represents the request body for creating an item
type CreateItemRequest struct {
	StoreID           uuid.UUID       `json:"store_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ImageURL          string          `json:"image_url,omitempty"`
	Barcode           string          `json:"barcode,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
}

// Validate validates the create item request
func (r *CreateItemRequest) Validate() error {
	if r.StoreID == uuid.Nil {
		return fmt.Errorf("store_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if r.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreateItemRequest) ToDomain() *domain.InventoryItem {
	item := &domain.InventoryItem{
		ID:                uuid.New(),
		StoreID:           r.StoreID,
		Name:              r.Name,
		Description:       r.Description,
		Category:          domain.ItemCategory(r.Category),
		Price:             r.Price,
		Quantity:          r.Quantity,
		LowStockThreshold: r.LowStockThreshold,
		ImageURL:          r.ImageURL,
		Barcode:           r.Barcode,
		ExpiryDate:        r.ExpiryDate,
	}

	if item.Category == "" {
		item.Category = domain.CategoryOther
	}

	return item
}

// UpdateItemRequest represents the request body for updating an item. An
// update that raises the quantity counts as a restock and triggers the same
// fan-out as the restock endpoint.
type UpdateItemRequest struct {
	StoreID           uuid.UUID       `json:"store_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ImageURL          string          `json:"image_url,omitempty"`
	Barcode           string          `json:"barcode,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
}

// Validate validates the update item request
func (r *UpdateItemRequest) Validate() error {
	if r.StoreID == uuid.Nil {
		return fmt.Errorf("store_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if r.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *UpdateItemRequest) ToDomain() *domain.InventoryItem {
	item := &domain.InventoryItem{
		StoreID:           r.StoreID,
		Name:              r.Name,
		Description:       r.Description,
		Category:          domain.ItemCategory(r.Category),
		Price:             r.Price,
		Quantity:          r.Quantity,
		LowStockThreshold: r.LowStockThreshold,
		ImageURL:          r.ImageURL,
		Barcode:           r.Barcode,
		ExpiryDate:        r.ExpiryDate,
	}

	if item.Category == "" {
		item.Category = domain.CategoryOther
	}

	return item
}

// RestockRequest represents the request body for a restock
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// AdjustRequest represents the request body for a quantity adjustment
type AdjustRequest struct {
	Delta int `json:"delta"`
}
