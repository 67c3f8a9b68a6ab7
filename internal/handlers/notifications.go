// internal/handlers/notifications.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/handlers/middleware"
)

// NotificationHandler handles in-app notifications and restock subscriptions
type NotificationHandler struct {
	service ports.NotificationService
	logger  *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service ports.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "notifications")),
	}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit, offset := parsePagination(r)

	notifications, err := h.service.ListForUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"limit":         limit,
		"offset":        offset,
	})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	count, err := h.service.UnreadCount(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count unread notifications",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// MarkRead handles POST /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid notification ID format")
		return
	}

	if err := h.service.MarkRead(ctx, notificationID); err != nil {
		h.logger.ErrorContext(ctx, "failed to mark notification read",
			slog.String("notification_id", notificationID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked read"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserIDFromContext(ctx)
	if userID == uuid.Nil {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.MarkAllRead(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "failed to mark all notifications read",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked read"})
}

// Subscribe handles POST /api/v1/inventory/{id}/subscribe
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Subscribe(ctx, itemID, userID); err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			h.respondError(w, http.StatusNotFound, "Item not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to subscribe to restocks",
			slog.String("item_id", itemID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	h.logger.InfoContext(ctx, "restock subscription created",
		slog.String("item_id", itemID.String()),
		slog.String("user_id", userID.String()))

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Subscribed to restock alerts"})
}

// Unsubscribe handles DELETE /api/v1/inventory/{id}/subscribe
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Unsubscribe(ctx, itemID, userID); err != nil {
		h.logger.ErrorContext(ctx, "failed to unsubscribe from restocks",
			slog.String("item_id", itemID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Unsubscribed from restock alerts"})
}

func (h *NotificationHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *NotificationHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
