package models

// Product представляет товар каталога.
// Name — отображаемый атрибут, может меняться; ключом везде служит ID
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"` // цена в минимальных единицах валюты
	Stock    int    `json:"stock"`
	Image    []byte `json:"-"` // бинарный блоб изображения, отдается отдельным эндпоинтом
	HasImage bool   `json:"has_image"`
}
