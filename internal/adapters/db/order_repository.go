// internal/adapters/db/order_repository.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
)

// orderRepository implements ports.OrderRepository
type orderRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *Database, logger *slog.Logger) ports.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "orders")),
	}
}

// PlaceOrder is the checkout write path. Stock decrements, the order row, the
// sales ledger entry and the store notification all commit together or not at
// all. A line whose decrement matches no row aborts the whole transaction.
func (r *orderRepository) PlaceOrder(ctx context.Context, order *domain.Order, sale *domain.SalesRecord, notification *domain.Notification) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	saleItemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal sale items: %w", err)
	}

	err = r.db.Transaction(ctx, func(tx pgx.Tx) error {
		decrement := `
			UPDATE inventory
			SET quantity = quantity - $2, sales_count = sales_count + $2, updated_at = now()
			WHERE item_id = $1 AND deleted_at IS NULL AND quantity >= $2`

		for _, line := range order.Items {
			tag, err := tx.Exec(ctx, decrement, line.ItemID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", line.Name, err)
			}

			if tag.RowsAffected() == 0 {
				var exists bool
				checkErr := tx.QueryRow(ctx,
					`SELECT EXISTS(SELECT 1 FROM inventory WHERE item_id = $1 AND deleted_at IS NULL)`,
					line.ItemID,
				).Scan(&exists)
				if checkErr != nil {
					return fmt.Errorf("failed to check item %s: %w", line.Name, checkErr)
				}
				if !exists {
					return fmt.Errorf("item %s: %w", line.Name, ports.ErrItemNotFound)
				}
				return fmt.Errorf("item %s: %w", line.Name, ports.ErrInsufficientStock)
			}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO orders (order_id, user_id, store_id, items, total, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.ID, order.UserID, order.StoreID, itemsJSON,
			order.Total, order.Status, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO sales (sale_id, order_id, store_id, items, total_amount, quantity, sale_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, sale.OrderID, sale.StoreID, saleItemsJSON,
			sale.TotalAmount, sale.Quantity, sale.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sales record: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO notifications (notification_id, user_id, title, message, type, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			notification.ID, notification.UserID, notification.Title,
			notification.Message, notification.Type, notification.Read, notification.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order notification: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID.String()),
		slog.String("store_id", order.StoreID.String()),
		slog.String("total", order.Total.String()))

	return nil
}

const orderColumns = `order_id, user_id, store_id, items, total, status, payment_id, created_at, updated_at`

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// FindByUser retrieves a user's orders, newest first
func (r *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.queryOrders(ctx, query, userID, limit, offset)
}

// FindByStore retrieves a store's orders, newest first
func (r *orderRepository) FindByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.queryOrders(ctx, query, storeID, limit, offset)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order to a new lifecycle state
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE order_id = $1`

	tag, err := r.db.Exec(ctx, query, orderID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ports.ErrOrderNotFound
	}

	r.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID.String()),
		slog.String("status", string(status)))

	return nil
}

// SavePayment records a captured gateway payment and links it to the order
func (r *orderRepository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO payments (payment_id, order_id, amount, currency, method, status, gateway_payment_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			payment.ID, payment.OrderID, payment.Amount, payment.Currency,
			payment.Method, payment.Status, payment.GatewayPaymentID, payment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE orders SET payment_id = $2, updated_at = now() WHERE order_id = $1`,
			payment.OrderID, payment.GatewayPaymentID,
		)
		if err != nil {
			return fmt.Errorf("failed to link payment to order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrOrderNotFound
		}

		return nil
	})
}

// scanOrder scans one order row in orderColumns order
func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var itemsJSON []byte
	var paymentID *string

	err := row.Scan(
		&order.ID, &order.UserID, &order.StoreID, &itemsJSON,
		&order.Total, &order.Status, &paymentID,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if paymentID != nil {
		order.PaymentID = *paymentID
	}

	return order, nil
}
