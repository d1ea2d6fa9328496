package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/linemk/novacart/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

const (
	allProductsKey = "products:all"
	categoriesKey  = "products:categories"
)

// CatalogCache — best-effort кэш каталога. Любая ошибка кэша трактуется как
// промах: источником истины всегда остается БД.
type CatalogCache interface {
	GetProducts(ctx context.Context) ([]*models.Product, bool)
	SetProducts(ctx context.Context, products []*models.Product)
	GetCategories(ctx context.Context) ([]string, bool)
	SetCategories(ctx context.Context, categories []string)
	// Invalidate сбрасывает кэш; вызывается при любой мутации каталога админом.
	Invalidate(ctx context.Context)
}

type catalogCache struct {
	log    *slog.Logger
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache создаёт кэш каталога поверх redis-клиента.
func NewCatalogCache(log *slog.Logger, client *redis.Client, ttl time.Duration) CatalogCache {
	return &catalogCache{log: log, client: client, ttl: ttl}
}

func (c *catalogCache) GetProducts(ctx context.Context) ([]*models.Product, bool) {
	data, err := c.client.Get(ctx, allProductsKey).Result()
	if err != nil {
		return nil, false
	}
	var products []*models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *catalogCache) SetProducts(ctx context.Context, products []*models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, allProductsKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache products", slog.Any("error", err))
	}
}

func (c *catalogCache) GetCategories(ctx context.Context) ([]string, bool) {
	data, err := c.client.Get(ctx, categoriesKey).Result()
	if err != nil {
		return nil, false
	}
	var categories []string
	if err := json.Unmarshal([]byte(data), &categories); err != nil {
		return nil, false
	}
	return categories, true
}

func (c *catalogCache) SetCategories(ctx context.Context, categories []string) {
	data, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache categories", slog.Any("error", err))
	}
}

func (c *catalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, allProductsKey, categoriesKey).Err(); err != nil {
		c.log.Warn("failed to invalidate catalog cache", slog.Any("error", err))
	}
}
