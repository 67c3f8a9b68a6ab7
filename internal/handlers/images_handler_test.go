// internal/handlers/images_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kiranakart/kirana-be/internal/adapters/storage"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/handlers"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

func imageUploadRequest(t *testing.T, itemID uuid.UUID, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/inventory/"+itemID.String()+"/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetPathValue("id", itemID.String())
	return req
}

func TestImageHandler_UploadImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	baseDir := t.TempDir()
	store := storage.NewLocalStorage(baseDir, helpers.TestLogger())
	mockService := mocks.NewMockInventoryService(ctrl)
	handler := handlers.NewImageHandler(store, mockService, helpers.TestLogger())

	itemID := uuid.New()

	// Only the image column moves; the controller fails this test if the
	// handler falls back to a full item update.
	var savedURL string
	mockService.EXPECT().
		SetImageURL(gomock.Any(), itemID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, url string) error {
			savedURL = url
			return nil
		})

	req := imageUploadRequest(t, itemID, "shelf.png", []byte("png-bytes"))
	w := httptest.NewRecorder()

	handler.UploadImage(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, savedURL, response["image_url"])

	stored, err := os.ReadFile(savedURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestImageHandler_UploadImage_UnknownItemRemovesFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	baseDir := t.TempDir()
	store := storage.NewLocalStorage(baseDir, helpers.TestLogger())
	mockService := mocks.NewMockInventoryService(ctrl)
	handler := handlers.NewImageHandler(store, mockService, helpers.TestLogger())

	itemID := uuid.New()

	mockService.EXPECT().
		SetImageURL(gomock.Any(), itemID, gomock.Any()).
		Return(ports.ErrItemNotFound)

	req := imageUploadRequest(t, itemID, "shelf.jpg", []byte("jpg-bytes"))
	w := httptest.NewRecorder()

	handler.UploadImage(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// The orphaned upload is cleaned up
	var leftover []string
	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			leftover = append(leftover, path)
		}
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, leftover)
}

func TestImageHandler_UploadImage_RejectsNonImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage.NewLocalStorage(t.TempDir(), helpers.TestLogger())
	mockService := mocks.NewMockInventoryService(ctrl)
	handler := handlers.NewImageHandler(store, mockService, helpers.TestLogger())

	itemID := uuid.New()

	req := imageUploadRequest(t, itemID, "notes.txt", []byte("plain text"))
	w := httptest.NewRecorder()

	handler.UploadImage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
