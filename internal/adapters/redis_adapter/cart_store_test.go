package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/kiranakart/kirana-be/internal/adapters/redis_adapter"
	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/test/helpers"
)

func newTestCartStore(t *testing.T) (ports.CartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redis_a.NewCartStore(client, 24*time.Hour, helpers.TestLogger()), mr
}

func TestCartStore_LoadEmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCartStore(t)

	cart, err := store.Load(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total.IsZero())
}

func TestCartStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCartStore(t)
	userID := uuid.New()
	item := helpers.CreateTestItem()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(helpers.CreateTestCartItem(item, 3)))

	require.NoError(t, store.Save(ctx, userID, cart))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, item.ID, loaded.Items[0].ItemID)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
	assert.True(t, loaded.Total.Equal(cart.Total))
}

func TestCartStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCartStore(t)
	userID := uuid.New()
	item := helpers.CreateTestItem()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(helpers.CreateTestCartItem(item, 1)))
	require.NoError(t, store.Save(ctx, userID, cart))

	require.NoError(t, store.Clear(ctx, userID))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	// Clearing again is a no-op
	require.NoError(t, store.Clear(ctx, userID))
}

func TestCartStore_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestCartStore(t)
	userID := uuid.New()
	item := helpers.CreateTestItem()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(helpers.CreateTestCartItem(item, 1)))
	require.NoError(t, store.Save(ctx, userID, cart))

	mr.FastForward(25 * time.Hour)

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestCartStore_DiscardsCorruptCart(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestCartStore(t)
	userID := uuid.New()

	mr.Set("cart:"+userID.String(), "{not json")

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
