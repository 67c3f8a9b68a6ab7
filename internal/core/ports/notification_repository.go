// internal/core/ports/notification_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

// NotificationRepository stores in-app notifications. MarkRead flips the read
// flag; nothing ever flips it back.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	PurgeRead(ctx context.Context, olderThan time.Time) (int64, error)
}

// SubscriptionRepository stores restock subscriptions, one row per
// (item, user) pair. Subscribe is idempotent.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, itemID, userID uuid.UUID) error
	Unsubscribe(ctx context.Context, itemID, userID uuid.UUID) error
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Subscription, error)
	IsSubscribed(ctx context.Context, itemID, userID uuid.UUID) (bool, error)
}
