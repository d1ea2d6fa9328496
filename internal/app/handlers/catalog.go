package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/service"
	"github.com/linemk/novacart/internal/storage"
)

// ProductListResponse — ответ на запрос каталога.
type ProductListResponse struct {
	Products []*models.Product `json:"products"`
}

// CategoriesResponse — список уникальных категорий каталога.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ProductsHandler обрабатывает запрос GET /api/products.
// Необязательный query-параметр category фильтрует выборку
func ProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler"
		logger := log.With(slog.String("op", op))

		category := r.URL.Query().Get("category")

		products, err := catalogService.List(r.Context(), category)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := ProductListResponse{Products: products}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// CategoriesHandler обрабатывает запрос GET /api/products/categories.
func CategoriesHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CategoriesHandler"
		logger := log.With(slog.String("op", op))

		categories, err := catalogService.Categories(r.Context())
		if err != nil {
			logger.Error("failed to list categories", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := CategoriesResponse{Categories: categories}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// ProductImageHandler обрабатывает запрос GET /api/products/{id}/image
// и отдает блоб изображения как есть, с определением типа по содержимому
func ProductImageHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductImageHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		image, err := catalogService.Image(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) || errors.Is(err, service.ErrImageNotFound) {
				http.Error(w, "image not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to get image", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", mimetype.Detect(image).String())
		if _, err := w.Write(image); err != nil {
			logger.Error("failed to write image", slog.Any("error", err))
		}
	}
}
