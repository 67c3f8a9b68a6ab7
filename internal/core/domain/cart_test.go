package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranakart/kirana-be/internal/core/domain"
)

func line(storeID uuid.UUID, name string, price float64, qty int) domain.CartItem {
	return domain.CartItem{
		ItemID:   uuid.New(),
		StoreID:  storeID,
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Quantity: qty,
	}
}

func TestCart_AddItem(t *testing.T) {
	storeID := uuid.New()

	t.Run("adds_new_line", func(t *testing.T) {
		cart := domain.NewCart()

		err := cart.AddItem(line(storeID, "Amul Milk 500ml", 28, 2))

		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(56)))
	})

	t.Run("merges_duplicate_item_quantities", func(t *testing.T) {
		cart := domain.NewCart()
		item := line(storeID, "Parle-G", 10, 2)

		require.NoError(t, cart.AddItem(item))
		item.Quantity = 3
		require.NoError(t, cart.AddItem(item))

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(50)))
	})

	t.Run("rejects_item_from_second_store", func(t *testing.T) {
		cart := domain.NewCart()
		require.NoError(t, cart.AddItem(line(storeID, "Amul Milk 500ml", 28, 1)))

		err := cart.AddItem(line(uuid.New(), "Bread", 40, 1))

		assert.ErrorIs(t, err, domain.ErrMixedStoreCart)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		cart := domain.NewCart()

		err := cart.AddItem(line(storeID, "Amul Milk 500ml", 28, 0))

		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.True(t, cart.IsEmpty())
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	storeID := uuid.New()

	t.Run("changes_quantity_and_total", func(t *testing.T) {
		cart := domain.NewCart()
		item := line(storeID, "Tata Salt 1kg", 25, 2)
		require.NoError(t, cart.AddItem(item))

		err := cart.UpdateQuantity(item.ItemID, 5)

		require.NoError(t, err)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(125)))
	})

	t.Run("zero_quantity_removes_line", func(t *testing.T) {
		cart := domain.NewCart()
		item := line(storeID, "Tata Salt 1kg", 25, 2)
		require.NoError(t, cart.AddItem(item))

		err := cart.UpdateQuantity(item.ItemID, 0)

		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.True(t, cart.Total.IsZero())
	})

	t.Run("unknown_item_returns_error", func(t *testing.T) {
		cart := domain.NewCart()

		err := cart.UpdateQuantity(uuid.New(), 3)

		assert.ErrorIs(t, err, domain.ErrItemNotInCart)
	})

	t.Run("negative_quantity_rejected", func(t *testing.T) {
		cart := domain.NewCart()
		item := line(storeID, "Tata Salt 1kg", 25, 2)
		require.NoError(t, cart.AddItem(item))

		err := cart.UpdateQuantity(item.ItemID, -1)

		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})
}

func TestCart_RemoveItem(t *testing.T) {
	storeID := uuid.New()

	t.Run("removes_existing_line", func(t *testing.T) {
		cart := domain.NewCart()
		keep := line(storeID, "Amul Butter", 56, 1)
		drop := line(storeID, "Maggi 4-pack", 58, 2)
		require.NoError(t, cart.AddItem(keep))
		require.NoError(t, cart.AddItem(drop))

		cart.RemoveItem(drop.ItemID)

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, keep.ItemID, cart.Items[0].ItemID)
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(56)))
	})

	t.Run("absent_item_is_noop", func(t *testing.T) {
		cart := domain.NewCart()
		require.NoError(t, cart.AddItem(line(storeID, "Amul Butter", 56, 1)))

		cart.RemoveItem(uuid.New())

		assert.Len(t, cart.Items, 1)
	})
}

// The cart total is maintained incrementally; this drives a mixed mutation
// sequence and checks the running total against a full recompute after every
// step.
func TestCart_TotalMatchesSumAfterEveryMutation(t *testing.T) {
	storeID := uuid.New()
	cart := domain.NewCart()

	a := line(storeID, "Aashirvaad Atta 5kg", 270, 1)
	b := line(storeID, "Fortune Oil 1L", 150, 2)
	c := line(storeID, "Red Label Tea 250g", 170, 1)

	check := func(step string) {
		t.Helper()
		assert.True(t, cart.Total.Equal(cart.Sum()),
			"after %s: total %s != sum %s", step, cart.Total, cart.Sum())
	}

	require.NoError(t, cart.AddItem(a))
	check("add a")
	require.NoError(t, cart.AddItem(b))
	check("add b")
	require.NoError(t, cart.AddItem(b))
	check("merge b")
	require.NoError(t, cart.AddItem(c))
	check("add c")
	require.NoError(t, cart.UpdateQuantity(a.ItemID, 3))
	check("update a")
	cart.RemoveItem(b.ItemID)
	check("remove b")
	require.NoError(t, cart.UpdateQuantity(c.ItemID, 0))
	check("zero c")
	cart.Clear()
	check("clear")
	assert.True(t, cart.Total.IsZero())
}

func TestCart_Clear(t *testing.T) {
	storeID := uuid.New()
	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(line(storeID, "Amul Milk 500ml", 28, 4)))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total.IsZero())
	assert.Equal(t, uuid.Nil, cart.StoreID())
}
