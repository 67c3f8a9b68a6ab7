// internal/handlers/export.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx/v3"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// exportPageSize is how many items each listing call pulls while draining
// a store's inventory for export.
const exportPageSize = 100

// ExportHandler streams a store's inventory as a spreadsheet or JSON
type ExportHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.InventoryService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/stores/{id}/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	items, err := h.collectItems(r, storeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect inventory for export",
			slog.String("store_id", storeID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	data, err := h.generateWorkbook(items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate workbook",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate spreadsheet")
		return
	}

	filename := fmt.Sprintf("inventory_%s_%s.xlsx", storeID.String()[:8], time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write spreadsheet response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "inventory export completed",
		slog.Int("total_rows", len(items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/stores/{id}/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	items, err := h.collectItems(r, storeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect inventory for export",
			slog.String("store_id", storeID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := map[string]interface{}{
		"inventory": items,
		"metadata": map[string]interface{}{
			"store_id":    storeID,
			"export_date": time.Now(),
			"total_items": len(items),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON export",
			slog.String("error", err.Error()))
	}
}

// collectItems drains the store's inventory page by page
func (h *ExportHandler) collectItems(r *http.Request, storeID uuid.UUID) ([]*domain.InventoryItem, error) {
	ctx := r.Context()

	params := ports.ListParams{
		StoreID:   storeID,
		Category:  r.URL.Query().Get("category"),
		SortBy:    "name",
		SortOrder: "asc",
		Page:      1,
		PageSize:  exportPageSize,
	}

	var items []*domain.InventoryItem
	for {
		result, err := h.service.List(ctx, params)
		if err != nil {
			return nil, err
		}

		items = append(items, result.Items...)
		if params.Page >= result.TotalPages || len(result.Items) == 0 {
			break
		}
		params.Page++
	}

	return items, nil
}

// generateWorkbook renders the items into an xlsx workbook in memory
func (h *ExportHandler) generateWorkbook(items []*domain.InventoryItem) ([]byte, error) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range []string{
		"Name", "Description", "Category", "Price", "Quantity",
		"Low Stock Threshold", "Sales Count", "Barcode", "Last Restocked",
	} {
		header.AddCell().SetString(col)
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().SetString(item.Name)
		row.AddCell().SetString(item.Description)
		row.AddCell().SetString(string(item.Category))
		row.AddCell().SetString(item.Price.StringFixed(2))
		row.AddCell().SetInt(item.Quantity)
		row.AddCell().SetInt(item.LowStockThreshold)
		row.AddCell().SetInt(item.SalesCount)
		row.AddCell().SetString(item.Barcode)
		if item.LastRestocked != nil {
			row.AddCell().SetString(item.LastRestocked.Format("2006-01-02"))
		} else {
			row.AddCell().SetString("")
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func (h *ExportHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
