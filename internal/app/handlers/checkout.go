package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/novacart/internal/service"
)

// CheckoutResponse — ответ на оформление заказа. Для пустой корзины
// возвращается только Message, поле Order отсутствует
type CheckoutResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order,omitempty"`
}

// CheckoutHandler обрабатывает запрос POST /api/checkout.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := checkoutService.Checkout(r.Context(), userID)
		if err != nil {
			// Пустая корзина — информационное состояние, не сбой
			if errors.Is(err, service.ErrCartEmpty) {
				resp := CheckoutResponse{Message: "Nothing to order: cart is empty"}
				w.Header().Set("Content-Type", "application/json")
				if err := json.NewEncoder(w).Encode(resp); err != nil {
					logger.Error("failed to encode response", slog.Any("error", err))
				}
				return
			}
			logger.Error("checkout failed", slog.Any("error", err))
			http.Error(w, "order placement failed", http.StatusInternalServerError)
			return
		}

		resp := CheckoutResponse{Message: "Order placed successfully", Order: order}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
