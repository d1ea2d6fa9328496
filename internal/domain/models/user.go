package models

// User представляет пользователя магазина
type User struct {
	ID       int64
	Username string
	PassHash []byte
}
