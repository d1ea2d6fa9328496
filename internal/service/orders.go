package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/storage"
)

// OrderHistoryService определяет интерфейс для чтения истории заказов.
type OrderHistoryService interface {
	List(ctx context.Context, userID int64) ([]*models.Order, error)
}

type orderHistoryService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewOrderHistoryService(log *slog.Logger, orderRepo storage.OrderStorage) OrderHistoryService {
	return &orderHistoryService{
		log:       log,
		orderRepo: orderRepo,
	}
}

// List возвращает заказы пользователя, новые первыми
func (s *orderHistoryService) List(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderHistoryService.List"
	s.log.Info("listing orders", slog.String("op", op), slog.Int64("userID", userID))

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	return orders, nil
}
