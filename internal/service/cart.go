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

// CartService определяет операции над корзиной пользователя.
type CartService interface {
	// Add добавляет товар в корзину: существующая позиция (user, product)
	// увеличивается на quantity, иначе создается новая со снимком текущей цены.
	Add(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error)
	// Remove удаляет позицию по id; отсутствие позиции — не ошибка.
	Remove(ctx context.Context, userID, lineID int64) error
	// List возвращает содержимое корзины и его суммарную стоимость.
	List(ctx context.Context, userID int64) (*CartView, error)
}

// CartView — содержимое корзины вместе с подсчитанной суммой.
type CartView struct {
	Items []*models.CartLine `json:"items"`
	Total int                `json:"total"`
}

type cartService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, db *sql.DB, cartRepo storage.CartStorage, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Add выполняет merge-on-add внутри одной транзакции: строка позиции
// блокируется FOR UPDATE, поэтому для пары (user, product) никогда не
// возникает двух строк. Наличие товара на складе не проверяется
func (s *cartService) Add(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	const op = "service.CartService.Add"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	if quantity <= 0 {
		return nil, fmt.Errorf("%s: quantity must be positive", op)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Снимок цены берется из каталога в момент добавления
	product, err := s.productRepo.GetProductByIDTx(ctx, tx, productID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	line, err := s.cartRepo.GetLineForUpdateTx(ctx, tx, userID, productID)
	switch {
	case err == nil:
		// Позиция уже есть — наращиваем количество, цена остается прежним снимком
		if err := s.cartRepo.IncrementQuantityTx(ctx, tx, line.ID, quantity); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to increment quantity", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to increment quantity: %w", op, err)
		}
		line.Quantity += quantity
	case errors.Is(err, storage.ErrCartLineNotFound):
		// Upsert закрывает гонку двух первых добавлений одной пары
		// (user, product): проигравшая вставка наращивает количество
		line, err = s.cartRepo.UpsertLineTx(ctx, tx, &models.CartLine{
			UserID:    userID,
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to upsert cart line", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to upsert cart line: %w", op, err)
		}
	default:
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to get cart line", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart line: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("item added to cart", slog.Int64("lineID", line.ID))
	return line, nil
}

func (s *cartService) Remove(ctx context.Context, userID, lineID int64) error {
	const op = "service.CartService.Remove"

	if err := s.cartRepo.DeleteLine(ctx, userID, lineID); err != nil {
		s.log.Error("failed to remove cart line",
			slog.String("op", op), slog.Int64("lineID", lineID), slog.Any("error", err))
		return fmt.Errorf("%s: failed to remove cart line: %w", op, err)
	}
	return nil
}

func (s *cartService) List(ctx context.Context, userID int64) (*CartView, error) {
	const op = "service.CartService.List"

	lines, err := s.cartRepo.ListLinesByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list cart: %w", op, err)
	}

	total := 0
	for _, line := range lines {
		total += line.Price * line.Quantity
	}
	return &CartView{Items: lines, Total: total}, nil
}
