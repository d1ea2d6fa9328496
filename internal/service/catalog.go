package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/novacart/internal/cache"
	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/storage"
)

// ErrImageNotFound возвращается, когда у товара нет загруженного изображения.
var ErrImageNotFound = errors.New("product image not found")

// CatalogService определяет операции над каталогом: публичное чтение
// и админские мутации.
type CatalogService interface {
	List(ctx context.Context, category string) ([]*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Image(ctx context.Context, id int64) ([]byte, error)
	Create(ctx context.Context, product *models.Product) (int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	cache       cache.CatalogCache // nil, если redis не сконфигурирован
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage, catalogCache cache.CatalogCache) CatalogService {
	return &catalogService{
		log:         log,
		productRepo: productRepo,
		cache:       catalogCache,
	}
}

// List возвращает товары каталога. Полная выборка (без фильтра по категории)
// идет через кэш; отфильтрованные запросы всегда читают БД
func (s *catalogService) List(ctx context.Context, category string) ([]*models.Product, error) {
	const op = "service.CatalogService.List"

	if category == "" && s.cache != nil {
		if products, ok := s.cache.GetProducts(ctx); ok {
			return products, nil
		}
	}

	products, err := s.productRepo.ListProducts(ctx, category)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}

	if category == "" && s.cache != nil {
		s.cache.SetProducts(ctx, products)
	}
	return products, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	const op = "service.CatalogService.Categories"

	if s.cache != nil {
		if categories, ok := s.cache.GetCategories(ctx); ok {
			return categories, nil
		}
	}

	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list categories: %w", op, err)
	}

	if s.cache != nil {
		s.cache.SetCategories(ctx, categories)
	}
	return categories, nil
}

func (s *catalogService) Image(ctx context.Context, id int64) ([]byte, error) {
	const op = "service.CatalogService.Image"

	image, err := s.productRepo.GetProductImage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrImageNotFound)
	}
	return image, nil
}

func (s *catalogService) Create(ctx context.Context, product *models.Product) (int64, error) {
	const op = "service.CatalogService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("name", product.Name))

	id, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create product: %w", op, err)
	}
	s.invalidateCache(ctx)

	logger.Info("product created", slog.Int64("productID", id))
	return id, nil
}

func (s *catalogService) Update(ctx context.Context, product *models.Product) error {
	const op = "service.CatalogService.Update"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", product.ID))

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
		}
		logger.Error("failed to update product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update product: %w", op, err)
	}
	s.invalidateCache(ctx)

	logger.Info("product updated")
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	const op = "service.CatalogService.Delete"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return fmt.Errorf("%s: %w", op, storage.ErrProductNotFound)
		}
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}
	s.invalidateCache(ctx)

	logger.Info("product deleted")
	return nil
}

func (s *catalogService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
