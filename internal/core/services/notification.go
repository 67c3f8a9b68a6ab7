// internal/core/services/notification.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// NotificationService exposes in-app notifications and restock
// subscriptions.
type NotificationService struct {
	notifications ports.NotificationRepository
	subscriptions ports.SubscriptionRepository
	inventory     ports.InventoryRepository
	logger        *slog.Logger
}

var _ ports.NotificationService = (*NotificationService)(nil)

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifications ports.NotificationRepository,
	subscriptions ports.SubscriptionRepository,
	inventory ports.InventoryRepository,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		subscriptions: subscriptions,
		inventory:     inventory,
		logger:        logger.With(slog.String("service", "notification")),
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := s.notifications.FindByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// MarkRead flips one notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flips all of a user's notifications to read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// Subscribe registers the user for a restock alert on one item. Subscribing
// twice is a no-op.
func (s *NotificationService) Subscribe(ctx context.Context, itemID, userID uuid.UUID) error {
	exists, err := s.inventory.Exists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}
	if !exists {
		return ports.ErrItemNotFound
	}

	if err := s.subscriptions.Subscribe(ctx, itemID, userID); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.logger.InfoContext(ctx, "restock subscription added",
		slog.String("item_id", itemID.String()),
		slog.String("user_id", userID.String()))

	return nil
}

// Unsubscribe removes the user's restock alert for one item.
func (s *NotificationService) Unsubscribe(ctx context.Context, itemID, userID uuid.UUID) error {
	if err := s.subscriptions.Unsubscribe(ctx, itemID, userID); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}
