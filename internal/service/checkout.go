package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/storage"
)

// ErrCartEmpty возвращается при оформлении пустой корзины. Это информационное
// состояние, а не сбой: обработчик показывает "нечего заказывать"
var ErrCartEmpty = errors.New("cart is empty")

// CheckoutService определяет операцию оформления заказа.
type CheckoutService interface {
	Checkout(ctx context.Context, userID int64) (*models.Order, error)
}

type checkoutService struct {
	log       *slog.Logger
	db        *sql.DB
	cartRepo  storage.CartStorage
	orderRepo storage.OrderStorage
}

func NewCheckoutService(log *slog.Logger, db *sql.DB, cartRepo storage.CartStorage, orderRepo storage.OrderStorage) CheckoutService {
	return &checkoutService{
		log:       log,
		db:        db,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
	}
}

// Checkout превращает корзину пользователя в неизменяемый заказ и очищает её.
// Вся операция выполняется в одной транзакции: либо заказ создан и корзина
// пуста, либо ничего не произошло — промежуточных состояний снаружи не видно.
// Строки корзины блокируются FOR UPDATE, поэтому два одновременных оформления
// одним пользователем не создадут двух заказов из одной корзины
func (s *checkoutService) Checkout(ctx context.Context, userID int64) (*models.Order, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting checkout transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	lines, err := s.cartRepo.ListLinesByUserTx(ctx, tx, userID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to read cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to read cart: %w", op, err)
	}

	if len(lines) == 0 {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Info("nothing to order")
		return nil, fmt.Errorf("%s: %w", op, ErrCartEmpty)
	}

	// Сумма по снимкам цен, целочисленная арифметика
	total := 0
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		total += line.Price * line.Quantity
		items = append(items, models.OrderItem{
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}

	orderID, createdAt, err := s.orderRepo.CreateOrderTx(ctx, tx, userID, total)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	if err := s.orderRepo.CreateOrderItemsTx(ctx, tx, orderID, items); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order items: %w", op, err)
	}

	if err := s.cartRepo.ClearUserTx(ctx, tx, userID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	order := &models.Order{
		ID:        orderID,
		UserID:    userID,
		Total:     total,
		CreatedAt: createdAt,
		Items:     items,
	}
	logger.Info("checkout completed successfully",
		slog.Int64("orderID", orderID), slog.Int("total", total))
	return order, nil
}
