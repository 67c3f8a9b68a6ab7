// internal/adapters/db/notification_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// notificationRepository implements ports.NotificationRepository
type notificationRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *Database, logger *slog.Logger) ports.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "notifications")),
	}
}

// Create inserts one notification
func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// FindByUser returns a user's notifications, newest first
func (r *notificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, user_id, title, message, type, read, created_at
		FROM notifications
		WHERE user_id = $1`

	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notifications, nil
}

// MarkRead flips one notification to read
func (r *notificationRepository) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE notification_id = $1`

	tag, err := r.db.Exec(ctx, query, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification not found: %s", notificationID)
	}

	return nil
}

// MarkAllRead flips all of a user's notifications to read
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

// CountUnread counts a user's unread notifications
func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// PurgeRead deletes read notifications older than the cutoff
func (r *notificationRepository) PurgeRead(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM notifications WHERE read = TRUE AND created_at < $1`

	tag, err := r.db.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}

	purged := tag.RowsAffected()
	if purged > 0 {
		r.logger.InfoContext(ctx, "purged read notifications",
			slog.Int64("count", purged))
	}

	return purged, nil
}

// subscriptionRepository implements ports.SubscriptionRepository
type subscriptionRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *Database, logger *slog.Logger) ports.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "subscriptions")),
	}
}

// Subscribe registers interest in an item's restocks. Subscribing twice is a
// no-op.
func (r *subscriptionRepository) Subscribe(ctx context.Context, itemID, userID uuid.UUID) error {
	query := `
		INSERT INTO subscriptions (item_id, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (item_id, user_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// Unsubscribe removes a subscription. Removing an absent row is a no-op.
func (r *subscriptionRepository) Unsubscribe(ctx context.Context, itemID, userID uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE item_id = $1 AND user_id = $2`

	_, err := r.db.Exec(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return nil
}

// FindByItem returns all subscribers of one item
func (r *subscriptionRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Subscription, error) {
	query := `
		SELECT item_id, user_id, created_at
		FROM subscriptions
		WHERE item_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ItemID, &sub.UserID, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return subs, nil
}

// IsSubscribed reports whether the (item, user) pair exists
func (r *subscriptionRepository) IsSubscribed(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE item_id = $1 AND user_id = $2)`

	var exists bool
	err := r.db.QueryRow(ctx, query, itemID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}

	return exists, nil
}
