// internal/handlers/images.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/adapters/storage"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

const maxImageSize = 5 << 20 // 5 MB

// ImageHandler handles item image uploads
type ImageHandler struct {
	storage storage.StorageClient
	service ports.InventoryService
	logger  *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(storageClient storage.StorageClient, service ports.InventoryService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		storage: storageClient,
		service: service,
		logger:  logger.With(slog.String("handler", "images")),
	}
}

// UploadImage handles POST /api/v1/inventory/{id}/image. The uploaded file
// replaces the item's current image URL.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		h.respondError(w, http.StatusRequestEntityTooLarge, "Image exceeds size limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !isAllowedImageType(contentType, header.Filename) {
		h.respondError(w, http.StatusBadRequest, "Only JPEG, PNG and WebP images are accepted")
		return
	}

	key := fmt.Sprintf("items/%s/%s%s", itemID, uuid.New(), strings.ToLower(filepath.Ext(header.Filename)))

	url, err := h.storage.Upload(r.Context(), key, file, contentType)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to upload image",
			slog.String("item_id", itemID.String()),
			slog.String("key", key),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	// Single-column write; a full item update would also write quantity and
	// could undo a concurrent sale.
	if err := h.service.SetImageURL(r.Context(), itemID, url); err != nil {
		if delErr := h.storage.Delete(r.Context(), key); delErr != nil {
			h.logger.WarnContext(r.Context(), "failed to remove orphaned image",
				slog.String("key", key),
				slog.String("error", delErr.Error()))
		}
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to save image URL",
			slog.String("item_id", itemID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	h.logger.InfoContext(r.Context(), "item image uploaded",
		slog.String("item_id", itemID.String()),
		slog.String("key", key))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"item_id":   itemID,
		"image_url": url,
	})
}

func isAllowedImageType(contentType, filename string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

func (h *ImageHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (h *ImageHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
