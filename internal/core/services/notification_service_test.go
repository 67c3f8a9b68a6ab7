// internal/core/services/notification_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/core/services"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

type notificationMocks struct {
	notifications *mocks.MockNotificationRepository
	subscriptions *mocks.MockSubscriptionRepository
	inventory     *mocks.MockInventoryRepository
}

func newNotificationService(t *testing.T) (*services.NotificationService, *notificationMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &notificationMocks{
		notifications: mocks.NewMockNotificationRepository(ctrl),
		subscriptions: mocks.NewMockSubscriptionRepository(ctrl),
		inventory:     mocks.NewMockInventoryRepository(ctrl),
	}

	svc := services.NewNotificationService(m.notifications, m.subscriptions, m.inventory, helpers.TestLogger())
	return svc, m
}

func TestNotificationService_Subscribe(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("registers_subscription", func(t *testing.T) {
		svc, m := newNotificationService(t)

		m.inventory.EXPECT().Exists(gomock.Any(), itemID).Return(true, nil)
		m.subscriptions.EXPECT().Subscribe(gomock.Any(), itemID, userID).Return(nil)

		err := svc.Subscribe(context.Background(), itemID, userID)
		assert.NoError(t, err)
	})

	t.Run("unknown_item", func(t *testing.T) {
		svc, m := newNotificationService(t)

		m.inventory.EXPECT().Exists(gomock.Any(), itemID).Return(false, nil)

		err := svc.Subscribe(context.Background(), itemID, userID)
		assert.ErrorIs(t, err, ports.ErrItemNotFound)
	})

	t.Run("repeat_subscribe_is_noop", func(t *testing.T) {
		svc, m := newNotificationService(t)

		// The repository upserts, so a second subscribe succeeds without error.
		m.inventory.EXPECT().Exists(gomock.Any(), itemID).Return(true, nil).Times(2)
		m.subscriptions.EXPECT().Subscribe(gomock.Any(), itemID, userID).Return(nil).Times(2)

		require.NoError(t, svc.Subscribe(context.Background(), itemID, userID))
		require.NoError(t, svc.Subscribe(context.Background(), itemID, userID))
	})
}

func TestNotificationService_Unsubscribe(t *testing.T) {
	svc, m := newNotificationService(t)
	userID := uuid.New()
	itemID := uuid.New()

	m.subscriptions.EXPECT().Unsubscribe(gomock.Any(), itemID, userID).Return(nil)

	err := svc.Unsubscribe(context.Background(), itemID, userID)
	assert.NoError(t, err)
}

func TestNotificationService_ListForUser(t *testing.T) {
	svc, m := newNotificationService(t)
	userID := uuid.New()

	stored := []domain.Notification{
		{ID: uuid.New(), UserID: userID, Title: "Low stock alert", Read: false},
		{ID: uuid.New(), UserID: userID, Title: "Back in stock", Read: true},
	}

	m.notifications.EXPECT().
		FindByUser(gomock.Any(), userID, false, 20, 0).
		Return(stored, nil)

	got, err := svc.ListForUser(context.Background(), userID, false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	svc, m := newNotificationService(t)
	userID := uuid.New()

	m.notifications.EXPECT().CountUnread(gomock.Any(), userID).Return(int64(3), nil)

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNotificationService_MarkRead_WrapsRepositoryError(t *testing.T) {
	svc, m := newNotificationService(t)
	notificationID := uuid.New()

	repoErr := errors.New("connection reset")
	m.notifications.EXPECT().MarkRead(gomock.Any(), notificationID).Return(repoErr)

	err := svc.MarkRead(context.Background(), notificationID)
	assert.ErrorIs(t, err, repoErr)
}
