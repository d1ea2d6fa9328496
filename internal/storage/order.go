package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/linemk/novacart/internal/domain/models"
)

// OrderStorage описывает методы для работы с заказами.
// Заказы append-only: операций обновления и удаления нет.
type OrderStorage interface {
	// CreateOrderTx вставляет новый заказ внутри транзакции оформления.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64, total int) (int64, time.Time, error)
	// CreateOrderItemsTx вставляет снимки позиций корзины для заказа.
	CreateOrderItemsTx(ctx context.Context, tx *sql.Tx, orderID int64, items []models.OrderItem) error
	// GetOrdersByUserID возвращает заказы пользователя вместе с позициями,
	// отсортированные по времени создания по убыванию.
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, userID int64, total int) (int64, time.Time, error) {
	var id int64
	var createdAt time.Time
	err := tx.QueryRowContext(ctx,
		"INSERT INTO orders (user_id, total, created_at) VALUES ($1, $2, NOW()) RETURNING id, created_at",
		userID, total,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to create order: %w", err)
	}
	return id, createdAt, nil
}

func (r *orderRepository) CreateOrderItemsTx(ctx context.Context, tx *sql.Tx, orderID int64, items []models.OrderItem) error {
	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, name, price, quantity) VALUES ($1, $2, $3, $4)",
			orderID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	return nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	var orderIDs []int64
	byID := make(map[int64]*models.Order)
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// Позиции всех заказов одним запросом
	itemRows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, name, price, quantity
		 FROM order_items WHERE order_id = ANY($1) ORDER BY id`,
		pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := models.OrderItem{}
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
