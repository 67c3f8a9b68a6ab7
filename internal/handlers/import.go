// internal/handlers/import.go
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// ImportHandler accepts inventory CSV uploads and queues them for async
// processing. The response carries the job id; the rows land in the store's
// inventory once the worker gets to them.
type ImportHandler struct {
	enqueuer    ports.TaskEnqueuer
	logger      *slog.Logger
	maxFileSize int64
	uploadDir   string
}

// NewImportHandler creates a new import handler
func NewImportHandler(enqueuer ports.TaskEnqueuer, logger *slog.Logger, maxFileSize int64, uploadDir string) *ImportHandler {
	return &ImportHandler{
		enqueuer:    enqueuer,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
		uploadDir:   uploadDir,
	}
}

// ImportCSV handles POST /api/v1/import/csv
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "text/csv" && contentType != "application/csv" &&
		!strings.HasSuffix(header.Filename, ".csv") {
		h.respondError(w, http.StatusBadRequest, "Only CSV files are allowed")
		return
	}

	if header.Size > h.maxFileSize {
		h.respondError(w, http.StatusRequestEntityTooLarge, "File exceeds the size limit")
		return
	}

	storeID, err := uuid.Parse(r.FormValue("store_id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "store_id is required")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.logger.ErrorContext(ctx, "failed to create upload directory",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to prepare upload")
		return
	}

	jobID := uuid.New()
	tempFile := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", jobID, header.Filename))

	dst, err := os.Create(tempFile)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create temp file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to save file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	job := &ports.CSVImportJob{
		JobID:    jobID,
		StoreID:  storeID,
		FilePath: tempFile,
	}

	if err := h.enqueuer.EnqueueCSVImport(ctx, job); err != nil {
		os.Remove(tempFile)
		h.logger.ErrorContext(ctx, "failed to enqueue import",
			slog.String("job_id", jobID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "CSV import queued",
		slog.String("job_id", jobID.String()),
		slog.String("store_id", storeID.String()),
		slog.String("filename", header.Filename))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "CSV import has been queued for processing",
	})
}

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
