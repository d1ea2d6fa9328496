package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/novacart/internal/domain/models"
)

var ErrCartLineNotFound = errors.New("cart line not found")

// CartStorage описывает методы для работы с позициями корзины.
// Мутации выполняются внутри транзакции, которую открывает сервисный слой.
type CartStorage interface {
	// GetLineForUpdateTx возвращает позицию (user, product) с блокировкой FOR UPDATE.
	GetLineForUpdateTx(ctx context.Context, tx *sql.Tx, userID, productID int64) (*models.CartLine, error)
	// UpsertLineTx вставляет новую позицию со снимком цены. Если параллельное
	// добавление успело создать строку (user, product) первым, вставка
	// превращается в наращивание количества существующей строки; возвращается
	// итоговое состояние позиции.
	UpsertLineTx(ctx context.Context, tx *sql.Tx, line *models.CartLine) (*models.CartLine, error)
	// IncrementQuantityTx увеличивает количество существующей позиции.
	IncrementQuantityTx(ctx context.Context, tx *sql.Tx, lineID int64, by int) error
	// ListLinesByUser возвращает все позиции корзины пользователя.
	ListLinesByUser(ctx context.Context, userID int64) ([]*models.CartLine, error)
	// ListLinesByUserTx — то же, но с блокировкой FOR UPDATE: одновременные
	// оформления заказа одним пользователем сериализуются на этих строках.
	ListLinesByUserTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartLine, error)
	// DeleteLine удаляет позицию по id; отсутствие позиции ошибкой не считается.
	DeleteLine(ctx context.Context, userID, lineID int64) error
	// ClearUserTx удаляет все позиции корзины пользователя.
	ClearUserTx(ctx context.Context, tx *sql.Tx, userID int64) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт новый репозиторий корзины.
func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetLineForUpdateTx(ctx context.Context, tx *sql.Tx, userID, productID int64) (*models.CartLine, error) {
	line := &models.CartLine{}
	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, product_id, name, price, quantity
		 FROM cart_lines WHERE user_id = $1 AND product_id = $2 FOR UPDATE`,
		userID, productID)
	if err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Name, &line.Price, &line.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *cartRepository) UpsertLineTx(ctx context.Context, tx *sql.Tx, line *models.CartLine) (*models.CartLine, error) {
	// Проигравшая гонку вставка дожидается коммита победителя на уникальном
	// индексе и складывает количества; снимок цены остается от победителя
	result := &models.CartLine{UserID: line.UserID, ProductID: line.ProductID}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO cart_lines (user_id, product_id, name, price, quantity)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		 RETURNING id, name, price, quantity`,
		line.UserID, line.ProductID, line.Name, line.Price, line.Quantity,
	).Scan(&result.ID, &result.Name, &result.Price, &result.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return result, nil
}

func (r *cartRepository) IncrementQuantityTx(ctx context.Context, tx *sql.Tx, lineID int64, by int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE cart_lines SET quantity = quantity + $1 WHERE id = $2", by, lineID)
	if err != nil {
		return fmt.Errorf("failed to increment cart line quantity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

func (r *cartRepository) ListLinesByUser(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	return r.listLines(ctx, r.db.QueryContext, userID, false)
}

func (r *cartRepository) ListLinesByUserTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartLine, error) {
	return r.listLines(ctx, tx.QueryContext, userID, true)
}

type queryFunc func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *cartRepository) listLines(ctx context.Context, query queryFunc, userID int64, forUpdate bool) ([]*models.CartLine, error) {
	q := `SELECT id, user_id, product_id, name, price, quantity
	      FROM cart_lines WHERE user_id = $1 ORDER BY id`
	if forUpdate {
		q += " FOR UPDATE"
	}
	rows, err := query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.CartLine
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, userID, lineID int64) error {
	// удаление несуществующей позиции — не ошибка, RowsAffected не проверяем
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_lines WHERE id = $1 AND user_id = $2", lineID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

func (r *cartRepository) ClearUserTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
