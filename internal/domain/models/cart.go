package models

// CartLine представляет одну позицию корзины пользователя.
// Price — снимок цены товара на момент добавления, дальнейшие изменения
// каталога на позицию не влияют. Для пары (UserID, ProductID) существует
// не более одной позиции
type CartLine struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}
