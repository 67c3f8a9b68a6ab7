// internal/core/services/cart_service_test.go
package services_test

import (
	"context"
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

type cartMocks struct {
	carts     *mocks.MockCartStore
	inventory *mocks.MockInventoryRepository
}

func newCartService(t *testing.T) (*services.CartService, *cartMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &cartMocks{
		carts:     mocks.NewMockCartStore(ctrl),
		inventory: mocks.NewMockInventoryRepository(ctrl),
	}

	svc := services.NewCartService(m.carts, m.inventory, helpers.TestLogger())
	return svc, m
}

func TestCartService_AddItem(t *testing.T) {
	userID := uuid.New()

	t.Run("snapshots_price_and_name_into_cart", func(t *testing.T) {
		svc, m := newCartService(t)
		item := helpers.CreateTestItem()

		m.inventory.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)
		m.carts.EXPECT().Load(gomock.Any(), userID).Return(domain.NewCart(), nil)
		m.carts.EXPECT().
			Save(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ uuid.UUID, cart *domain.Cart) error {
				require.Len(t, cart.Items, 1)
				assert.Equal(t, item.Name, cart.Items[0].Name)
				assert.True(t, cart.Items[0].Price.Equal(item.Price))
				assert.True(t, cart.Total.Equal(item.Price.Mul(decimal.NewFromInt(2))))
				return nil
			})

		cart, err := svc.AddItem(context.Background(), userID, item.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, cart.UnitCount())
	})

	t.Run("unknown_item", func(t *testing.T) {
		svc, m := newCartService(t)
		itemID := uuid.New()

		m.inventory.EXPECT().FindByID(gomock.Any(), itemID).Return(nil, nil)

		_, err := svc.AddItem(context.Background(), userID, itemID, 1)
		assert.ErrorIs(t, err, ports.ErrItemNotFound)
	})

	t.Run("more_than_on_hand_rejected", func(t *testing.T) {
		svc, m := newCartService(t)
		item := helpers.CreateTestItem(func(i *domain.InventoryItem) {
			i.Quantity = 1
		})

		m.inventory.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)

		_, err := svc.AddItem(context.Background(), userID, item.ID, 5)
		assert.ErrorIs(t, err, ports.ErrInsufficientStock)
	})

	t.Run("second_store_rejected", func(t *testing.T) {
		svc, m := newCartService(t)
		existing := helpers.CreateTestItem()
		other := helpers.CreateTestItem()

		cart := domain.NewCart()
		require.NoError(t, cart.AddItem(helpers.CreateTestCartItem(existing, 1)))

		m.inventory.EXPECT().FindByID(gomock.Any(), other.ID).Return(other, nil)
		m.carts.EXPECT().Load(gomock.Any(), userID).Return(cart, nil)

		_, err := svc.AddItem(context.Background(), userID, other.ID, 1)
		assert.ErrorIs(t, err, domain.ErrMixedStoreCart)
	})
}

func TestCartService_UpdateQuantity(t *testing.T) {
	userID := uuid.New()

	t.Run("zero_removes_line", func(t *testing.T) {
		svc, m := newCartService(t)
		item := helpers.CreateTestItem()

		cart := domain.NewCart()
		require.NoError(t, cart.AddItem(helpers.CreateTestCartItem(item, 2)))

		m.carts.EXPECT().Load(gomock.Any(), userID).Return(cart, nil)
		m.carts.EXPECT().Save(gomock.Any(), userID, gomock.Any()).Return(nil)

		updated, err := svc.UpdateQuantity(context.Background(), userID, item.ID, 0)
		require.NoError(t, err)
		assert.True(t, updated.IsEmpty())
	})

	t.Run("unknown_line", func(t *testing.T) {
		svc, m := newCartService(t)

		m.carts.EXPECT().Load(gomock.Any(), userID).Return(domain.NewCart(), nil)

		_, err := svc.UpdateQuantity(context.Background(), userID, uuid.New(), 3)
		assert.ErrorIs(t, err, domain.ErrItemNotInCart)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	userID := uuid.New()
	svc, m := newCartService(t)
	item := helpers.CreateTestItem()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(helpers.CreateTestCartItem(item, 1)))

	m.carts.EXPECT().Load(gomock.Any(), userID).Return(cart, nil)
	m.carts.EXPECT().Save(gomock.Any(), userID, gomock.Any()).Return(nil)

	updated, err := svc.RemoveItem(context.Background(), userID, item.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsEmpty())
	assert.True(t, updated.Total.IsZero())
}
