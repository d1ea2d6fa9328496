package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/novacart/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductStorage описывает методы для работы с таблицей каталога.
type ProductStorage interface {
	// ListProducts возвращает товары каталога; пустая категория означает все товары.
	// Блоб изображения в выборку не входит, только признак его наличия.
	ListProducts(ctx context.Context, category string) ([]*models.Product, error)
	// ListCategories возвращает список уникальных категорий каталога.
	ListCategories(ctx context.Context) ([]string, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// GetProductByIDTx читает товар внутри транзакции — источник снимка цены при добавлении в корзину.
	GetProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error)
	// GetProductImage возвращает блоб изображения товара; nil, если изображение не загружено.
	GetProductImage(ctx context.Context, id int64) ([]byte, error)
	CreateProduct(ctx context.Context, product *models.Product) (int64, error)
	// UpdateProduct обновляет все изменяемые поля; image заменяется только если передан
	// непустой блоб, иначе в БД остается прежний (COALESCE).
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// productRepository — конкретная реализация интерфейса ProductStorage.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий каталога.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	query := `SELECT id, name, category, price, stock, image IS NOT NULL
	          FROM products`
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.HasImage); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, category, price, stock, image IS NOT NULL FROM products WHERE id = $1", id)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.HasImage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	p := &models.Product{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, name, category, price, stock, image IS NOT NULL FROM products WHERE id = $1", id)
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.HasImage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductImage(ctx context.Context, id int64) ([]byte, error) {
	var image []byte
	row := r.db.QueryRowContext(ctx, "SELECT image FROM products WHERE id = $1", id)
	if err := row.Scan(&image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return image, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO products (name, category, price, stock, image) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		product.Name, product.Category, product.Price, product.Stock, product.Image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	// NULLIF + COALESCE: пустой блоб не затирает уже сохраненное изображение
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, category = $2, price = $3, stock = $4,
		     image = COALESCE(NULLIF($5, ''::bytea), image)
		 WHERE id = $6`,
		product.Name, product.Category, product.Price, product.Stock, product.Image, product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
