// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	redis_a "github.com/kiranakart/kirana-be/internal/adapters/redis_adapter"
	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

const dashboardCacheTTL = 15 * time.Minute

// DashboardHandler serves the store owner's dashboard: a cached sales
// summary plus the current low-stock list. The summary cache is shared with
// the analytics rollup worker, which refreshes the same key in the
// background.
type DashboardHandler struct {
	sales     ports.SalesRepository
	inventory ports.InventoryService
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	sales ports.SalesRepository,
	inventory ports.InventoryService,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		sales:     sales,
		inventory: inventory,
		cache:     cache,
		logger:    logger.With(slog.String("handler", "dashboard")),
	}
}

// DashboardResponse is the store dashboard payload
type DashboardResponse struct {
	StoreID  uuid.UUID            `json:"store_id"`
	Sales    *domain.SalesSummary `json:"sales"`
	LowStock []domain.StockLevel  `json:"low_stock"`
	Cached   bool                 `json:"cached"`
}

// GetDashboard handles GET /api/v1/stores/{id}/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		if v, err := strconv.Atoi(d); err == nil && v > 0 && v <= 365 {
			days = v
		}
	}

	summary, cached, err := h.loadSummary(ctx, storeID, days)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load sales summary",
			slog.String("store_id", storeID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	lowStock, err := h.inventory.LowStock(ctx, storeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load low stock list",
			slog.String("store_id", storeID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, DashboardResponse{
		StoreID:  storeID,
		Sales:    summary,
		LowStock: lowStock,
		Cached:   cached,
	})
}

// loadSummary returns the sales summary, serving from cache when possible.
// Only the default 30-day window is cached; custom windows always hit the
// database.
func (h *DashboardHandler) loadSummary(ctx context.Context, storeID uuid.UUID, days int) (*domain.SalesSummary, bool, error) {
	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "store", storeID.String())

	if days == 30 {
		var cachedSummary domain.SalesSummary
		err := h.cache.Get(ctx, cacheKey, &cachedSummary)
		if err == nil {
			return &cachedSummary, true, nil
		}
		if !errors.Is(err, redis_a.ErrCacheMiss) {
			h.logger.WarnContext(ctx, "dashboard cache read failed",
				slog.String("error", err.Error()))
		}
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	summary, err := h.sales.Summary(ctx, storeID, from, to)
	if err != nil {
		return nil, false, err
	}

	if days == 30 {
		if err := h.cache.SetWithTTL(ctx, cacheKey, summary, dashboardCacheTTL); err != nil {
			h.logger.WarnContext(ctx, "dashboard cache write failed",
				slog.String("error", err.Error()))
		}
	}

	return summary, false, nil
}

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
