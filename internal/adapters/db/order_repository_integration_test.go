//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/kiranakart/kirana-be/internal/adapters/db"
	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/test/helpers"
)

type OrderRepositorySuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	orders    ports.OrderRepository
	inventory ports.InventoryRepository
	ctx       context.Context
}

func (s *OrderRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.orders = db.NewOrderRepository(s.testDB.Database, helpers.TestLogger())
	s.inventory = db.NewInventoryRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *OrderRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

// seedOrder saves inventory for the given quantities and returns a pending
// order over those items.
func (s *OrderRepositorySuite) seedOrder(userID uuid.UUID, quantities ...int) (*domain.Order, []*domain.InventoryItem) {
	storeID := uuid.New()

	var stocked []*domain.InventoryItem
	var lines []domain.CartItem
	for i, onHand := range quantities {
		item := helpers.CreateTestItem(func(it *domain.InventoryItem) {
			it.StoreID = storeID
			it.Quantity = onHand
			it.Price = decimal.NewFromInt(int64(50 + i*10))
		})
		s.Require().NoError(s.inventory.Save(s.ctx, item))
		stocked = append(stocked, item)
		lines = append(lines, helpers.CreateTestCartItem(item, 2))
	}

	return helpers.CreateTestOrder(userID, lines), stocked
}

func (s *OrderRepositorySuite) TestPlaceOrder_CommitsEverything() {
	userID := uuid.New()
	order, stocked := s.seedOrder(userID, 10, 10)
	sale := domain.NewSalesRecord(order)
	notification := domain.NewOrderNotification(order.StoreID, order)

	err := s.orders.PlaceOrder(s.ctx, order, sale, notification)
	s.NoError(err)

	saved, err := s.orders.FindByID(s.ctx, order.ID)
	s.NoError(err)
	s.NotNil(saved)
	s.Equal(domain.OrderPending, saved.Status)
	s.Len(saved.Items, 2)
	s.True(order.Total.Equal(saved.Total))

	// Stock decremented and sales counted per line
	for _, item := range stocked {
		current, err := s.inventory.FindByID(s.ctx, item.ID)
		s.NoError(err)
		s.Equal(8, current.Quantity)
		s.Equal(2, current.SalesCount)
	}

	var saleCount, notificationCount int
	s.NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM sales WHERE order_id = $1`, order.ID).Scan(&saleCount))
	s.NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, order.StoreID).Scan(&notificationCount))
	s.Equal(1, saleCount)
	s.Equal(1, notificationCount)
}

func (s *OrderRepositorySuite) TestPlaceOrder_InsufficientStockRollsBackAllLines() {
	userID := uuid.New()
	// Second item has only 1 on hand; the order wants 2 of each.
	order, stocked := s.seedOrder(userID, 10, 1)
	sale := domain.NewSalesRecord(order)
	notification := domain.NewOrderNotification(order.StoreID, order)

	err := s.orders.PlaceOrder(s.ctx, order, sale, notification)
	s.ErrorIs(err, ports.ErrInsufficientStock)

	// First line's decrement must have been rolled back
	first, err := s.inventory.FindByID(s.ctx, stocked[0].ID)
	s.NoError(err)
	s.Equal(10, first.Quantity)
	s.Equal(0, first.SalesCount)

	saved, err := s.orders.FindByID(s.ctx, order.ID)
	s.NoError(err)
	s.Nil(saved)

	var saleCount int
	s.NoError(s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM sales`).Scan(&saleCount))
	s.Equal(0, saleCount)
}

func (s *OrderRepositorySuite) TestPlaceOrder_UnknownItemRollsBack() {
	userID := uuid.New()
	order, _ := s.seedOrder(userID, 10)
	order.Items = append(order.Items, domain.CartItem{
		ItemID:   uuid.New(),
		StoreID:  order.StoreID,
		Name:     "Ghost Item",
		Price:    decimal.NewFromInt(10),
		Quantity: 1,
	})
	order.Total = order.Total.Add(decimal.NewFromInt(10))
	sale := domain.NewSalesRecord(order)
	notification := domain.NewOrderNotification(order.StoreID, order)

	err := s.orders.PlaceOrder(s.ctx, order, sale, notification)
	s.ErrorIs(err, ports.ErrItemNotFound)

	saved, err := s.orders.FindByID(s.ctx, order.ID)
	s.NoError(err)
	s.Nil(saved)
}

func (s *OrderRepositorySuite) TestFindByUserAndStore() {
	userID := uuid.New()

	var storeID uuid.UUID
	for i := 0; i < 3; i++ {
		order, _ := s.seedOrder(userID, 10)
		storeID = order.StoreID
		sale := domain.NewSalesRecord(order)
		notification := domain.NewOrderNotification(order.StoreID, order)
		s.Require().NoError(s.orders.PlaceOrder(s.ctx, order, sale, notification))
	}

	byUser, err := s.orders.FindByUser(s.ctx, userID, 10, 0)
	s.NoError(err)
	s.Len(byUser, 3)

	byStore, err := s.orders.FindByStore(s.ctx, storeID, 10, 0)
	s.NoError(err)
	s.Len(byStore, 1)

	limited, err := s.orders.FindByUser(s.ctx, userID, 2, 0)
	s.NoError(err)
	s.Len(limited, 2)
}

func (s *OrderRepositorySuite) TestUpdateStatus() {
	userID := uuid.New()
	order, _ := s.seedOrder(userID, 10)
	sale := domain.NewSalesRecord(order)
	notification := domain.NewOrderNotification(order.StoreID, order)
	s.Require().NoError(s.orders.PlaceOrder(s.ctx, order, sale, notification))

	s.NoError(s.orders.UpdateStatus(s.ctx, order.ID, domain.OrderConfirmed))

	saved, err := s.orders.FindByID(s.ctx, order.ID)
	s.NoError(err)
	s.Equal(domain.OrderConfirmed, saved.Status)

	err = s.orders.UpdateStatus(s.ctx, uuid.New(), domain.OrderConfirmed)
	s.ErrorIs(err, ports.ErrOrderNotFound)
}

func (s *OrderRepositorySuite) TestSavePayment() {
	userID := uuid.New()
	order, _ := s.seedOrder(userID, 10)
	sale := domain.NewSalesRecord(order)
	notification := domain.NewOrderNotification(order.StoreID, order)
	s.Require().NoError(s.orders.PlaceOrder(s.ctx, order, sale, notification))

	payment := &domain.Payment{
		ID:               uuid.New(),
		OrderID:          order.ID,
		Amount:           order.Total,
		Currency:         "INR",
		Method:           "razorpay",
		Status:           "captured",
		GatewayPaymentID: "pay_ABC123",
	}
	s.NoError(s.orders.SavePayment(s.ctx, payment))

	saved, err := s.orders.FindByID(s.ctx, order.ID)
	s.NoError(err)
	s.Equal("pay_ABC123", saved.PaymentID)
}

func TestOrderRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositorySuite))
}
