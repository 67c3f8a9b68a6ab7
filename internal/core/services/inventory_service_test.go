// internal/core/services/inventory_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/core/services"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

type inventoryMocks struct {
	repo          *mocks.MockInventoryRepository
	notifications *mocks.MockNotificationRepository
	enqueuer      *mocks.MockTaskEnqueuer
}

func newInventoryService(t *testing.T) (*services.InventoryService, *inventoryMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &inventoryMocks{
		repo:          mocks.NewMockInventoryRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		enqueuer:      mocks.NewMockTaskEnqueuer(ctrl),
	}

	svc := services.NewInventoryService(m.repo, m.notifications, m.enqueuer, nil, helpers.TestLogger())
	return svc, m
}

func TestInventoryService_SaveItem(t *testing.T) {
	tests := []struct {
		name          string
		item          *domain.InventoryItem
		setupMocks    func(*inventoryMocks)
		expectedError bool
		errorContains string
	}{
		{
			name: "successful_save_with_valid_item",
			item: helpers.CreateTestItem(),
			setupMocks: func(m *inventoryMocks) {
				m.repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedError: false,
		},
		{
			name: "validation_fails_for_missing_name",
			item: helpers.CreateTestItem(func(i *domain.InventoryItem) {
				i.Name = ""
			}),
			setupMocks:    func(m *inventoryMocks) {},
			expectedError: true,
			errorContains: "name is required",
		},
		{
			name: "validation_fails_for_negative_price",
			item: helpers.CreateTestItem(func(i *domain.InventoryItem) {
				i.Price = decimal.NewFromFloat(-10)
			}),
			setupMocks:    func(m *inventoryMocks) {},
			expectedError: true,
			errorContains: "price cannot be negative",
		},
		{
			name: "repository_save_error",
			item: helpers.CreateTestItem(),
			setupMocks: func(m *inventoryMocks) {
				m.repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
		{
			name: "sets_default_category_when_empty",
			item: helpers.CreateTestItem(func(i *domain.InventoryItem) {
				i.Category = ""
			}),
			setupMocks: func(m *inventoryMocks) {
				m.repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, item *domain.InventoryItem) error {
						assert.Equal(t, domain.CategoryOther, item.Category)
						return nil
					})
			},
			expectedError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newInventoryService(t)
			tt.setupMocks(m)

			err := svc.SaveItem(context.Background(), tt.item)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestInventoryService_UpdateItem(t *testing.T) {
	itemID := uuid.New()
	storeID := uuid.New()

	t.Run("restock_enqueues_fanout", func(t *testing.T) {
		svc, m := newInventoryService(t)
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.ID = itemID
			i.StoreID = storeID
			i.Quantity = 30
		})

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(&domain.StockChange{
				ItemID:      itemID,
				StoreID:     storeID,
				Name:        item.Name,
				OldQuantity: 0,
				NewQuantity: 30,
			}, nil)

		m.enqueuer.EXPECT().
			EnqueueRestockFanout(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, event *ports.RestockEvent) error {
				assert.NotEmpty(t, event.EventID)
				assert.Equal(t, itemID, event.ItemID)
				assert.Equal(t, 0, event.OldQuantity)
				assert.Equal(t, 30, event.NewQuantity)
				return nil
			})

		err := svc.UpdateItem(context.Background(), itemID, item)
		require.NoError(t, err)
	})

	t.Run("drop_below_threshold_creates_low_stock_alert", func(t *testing.T) {
		svc, m := newInventoryService(t)
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.ID = itemID
			i.StoreID = storeID
			i.Quantity = 3
			i.LowStockThreshold = 5
		})

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(&domain.StockChange{
				ItemID:      itemID,
				StoreID:     storeID,
				Name:        item.Name,
				OldQuantity: 10,
				NewQuantity: 3,
			}, nil)

		m.notifications.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, n *domain.Notification) error {
				assert.Equal(t, storeID, n.UserID)
				assert.Equal(t, domain.NotificationStock, n.Type)
				assert.Contains(t, n.Message, "running low on stock")
				assert.Contains(t, n.Message, "3 remaining")
				return nil
			})

		err := svc.UpdateItem(context.Background(), itemID, item)
		require.NoError(t, err)
	})

	t.Run("unchanged_quantity_triggers_nothing", func(t *testing.T) {
		svc, m := newInventoryService(t)
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.ID = itemID
			i.Quantity = 20
		})

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(&domain.StockChange{
				ItemID:      itemID,
				OldQuantity: 20,
				NewQuantity: 20,
			}, nil)

		err := svc.UpdateItem(context.Background(), itemID, item)
		require.NoError(t, err)
	})

	t.Run("enqueue_failure_does_not_fail_the_update", func(t *testing.T) {
		svc, m := newInventoryService(t)
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.ID = itemID
			i.Quantity = 30
		})

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(&domain.StockChange{
				ItemID:      itemID,
				OldQuantity: 5,
				NewQuantity: 30,
			}, nil)

		m.enqueuer.EXPECT().
			EnqueueRestockFanout(gomock.Any(), gomock.Any()).
			Return(errors.New("queue unavailable"))

		err := svc.UpdateItem(context.Background(), itemID, item)
		require.NoError(t, err)
	})
}

func TestInventoryService_Restock(t *testing.T) {
	itemID := uuid.New()

	t.Run("quantity_increase_enqueues_fanout", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().
			Restock(gomock.Any(), itemID, 25).
			Return(&domain.StockChange{
				ItemID:      itemID,
				Name:        "Amul Milk 500ml",
				OldQuantity: 0,
				NewQuantity: 25,
			}, nil)

		m.enqueuer.EXPECT().
			EnqueueRestockFanout(gomock.Any(), gomock.Any()).
			Return(nil)

		change, err := svc.Restock(context.Background(), itemID, 25)
		require.NoError(t, err)
		assert.True(t, change.IsRestock())
	})

	t.Run("no_increase_no_fanout", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().
			Restock(gomock.Any(), itemID, 10).
			Return(&domain.StockChange{
				ItemID:      itemID,
				OldQuantity: 10,
				NewQuantity: 10,
			}, nil)

		change, err := svc.Restock(context.Background(), itemID, 10)
		require.NoError(t, err)
		assert.False(t, change.IsRestock())
	})

	t.Run("negative_quantity_rejected", func(t *testing.T) {
		svc, _ := newInventoryService(t)

		_, err := svc.Restock(context.Background(), itemID, -5)
		require.Error(t, err)
	})
}

func TestInventoryService_AdjustQuantity(t *testing.T) {
	itemID := uuid.New()
	storeID := uuid.New()

	t.Run("decrement_at_threshold_creates_alert", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().
			AdjustQuantity(gomock.Any(), itemID, -2).
			Return(&domain.StockLevel{
				ItemID:            itemID,
				StoreID:           storeID,
				Name:              "Tata Salt 1kg",
				Quantity:          5,
				LowStockThreshold: 5,
			}, nil)

		m.notifications.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil)

		level, err := svc.AdjustQuantity(context.Background(), itemID, -2)
		require.NoError(t, err)
		assert.Equal(t, 5, level.Quantity)
	})

	t.Run("decrement_above_threshold_no_alert", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().
			AdjustQuantity(gomock.Any(), itemID, -1).
			Return(&domain.StockLevel{
				ItemID:            itemID,
				Quantity:          9,
				LowStockThreshold: 5,
			}, nil)

		_, err := svc.AdjustQuantity(context.Background(), itemID, -1)
		require.NoError(t, err)
	})

	t.Run("increment_below_threshold_no_alert", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().
			AdjustQuantity(gomock.Any(), itemID, 1).
			Return(&domain.StockLevel{
				ItemID:            itemID,
				Quantity:          3,
				LowStockThreshold: 5,
			}, nil)

		_, err := svc.AdjustQuantity(context.Background(), itemID, 1)
		require.NoError(t, err)
	})

	t.Run("insufficient_stock_error_is_passed_through", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().
			AdjustQuantity(gomock.Any(), itemID, -100).
			Return(nil, ports.ErrInsufficientStock)

		_, err := svc.AdjustQuantity(context.Background(), itemID, -100)
		assert.ErrorIs(t, err, ports.ErrInsufficientStock)
	})
}

func TestInventoryService_DeleteItem(t *testing.T) {
	itemID := uuid.New()

	t.Run("soft_delete_by_default", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().Exists(gomock.Any(), itemID).Return(true, nil)
		m.repo.EXPECT().SoftDelete(gomock.Any(), itemID).Return(nil)

		require.NoError(t, svc.DeleteItem(context.Background(), itemID, false))
	})

	t.Run("permanent_delete", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().Exists(gomock.Any(), itemID).Return(true, nil)
		m.repo.EXPECT().Delete(gomock.Any(), itemID).Return(nil)

		require.NoError(t, svc.DeleteItem(context.Background(), itemID, true))
	})

	t.Run("missing_item", func(t *testing.T) {
		svc, m := newInventoryService(t)

		m.repo.EXPECT().Exists(gomock.Any(), itemID).Return(false, nil)

		err := svc.DeleteItem(context.Background(), itemID, false)
		assert.ErrorIs(t, err, ports.ErrItemNotFound)
	})
}
