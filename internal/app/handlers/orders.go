package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/novacart/internal/service"
)

// OrdersResponse — история заказов пользователя, новые первыми.
type OrdersResponse struct {
	Orders []*models.Order `json:"orders"`
}

// OrdersHandler обрабатывает запрос GET /api/orders.
func OrdersHandler(log *slog.Logger, orderService service.OrderHistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderService.List(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := OrdersResponse{Orders: orders}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
