package models

import "time"

// Order представляет заказ, созданный при оформлении корзины.
// После создания заказ неизменяем
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Total     int         `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem — снимок позиции корзины, скопированный в заказ при оформлении.
// Связи с таблицей products нет намеренно: изменение или удаление товара
// не должно затрагивать историю заказов
type OrderItem struct {
	ID       int64  `json:"id"`
	OrderID  int64  `json:"order_id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}
