package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/service"
	"github.com/linemk/novacart/internal/storage"
)

// maxUploadSize ограничивает размер multipart-формы с изображением товара.
const maxUploadSize = 10 << 20 // 10 MiB

// productForm — поля админской формы товара с тегами валидации.
type productForm struct {
	Name     string `validate:"required,max=128"`
	Category string `validate:"required,max=64"`
	Price    int    `validate:"required,gt=0"`
	Stock    int    `validate:"gte=0"`
}

// CreateProductResponse — ответ на создание товара.
type CreateProductResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// AdminMessageResponse — общий ответ админских операций.
type AdminMessageResponse struct {
	Message string `json:"message"`
}

// parseProductForm читает multipart-форму товара: текстовые поля и
// необязательный файл изображения (только JPEG/PNG, тип определяется
// по содержимому, а не по заголовкам клиента). Тело запроса ограничено
// maxUploadSize целиком, не только буферизация в памяти
func parseProductForm(w http.ResponseWriter, r *http.Request) (*models.Product, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	price, err := strconv.Atoi(r.FormValue("price"))
	if err != nil {
		return nil, errors.New("invalid price")
	}
	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil {
		return nil, errors.New("invalid stock")
	}

	form := productForm{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Price:    price,
		Stock:    stock,
	}
	if err := validate.Struct(form); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	product := &models.Product{
		Name:     form.Name,
		Category: form.Category,
		Price:    form.Price,
		Stock:    form.Stock,
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// Изображение необязательно: при обновлении сохраняется прежнее
			return product, nil
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	mime := mimetype.Detect(data)
	if !mime.Is("image/jpeg") && !mime.Is("image/png") {
		return nil, fmt.Errorf("unsupported image format: %s", mime.String())
	}
	product.Image = data

	return product, nil
}

// CreateProductHandler обрабатывает запрос POST /api/admin/products.
func CreateProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		product, err := parseProductForm(w, r)
		if err != nil {
			logger.Error("invalid product form", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := catalogService.Create(r.Context(), product)
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := CreateProductResponse{ID: id, Message: "Product created successfully"}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateProductHandler обрабатывает запрос PUT /api/admin/products/{id}.
// Если файл изображения не передан, прежний блоб сохраняется
func UpdateProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		product, err := parseProductForm(w, r)
		if err != nil {
			logger.Error("invalid product form", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		product.ID = id

		if err := catalogService.Update(r.Context(), product); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to update product", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := AdminMessageResponse{Message: "Product updated successfully"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// DeleteProductHandler обрабатывает запрос DELETE /api/admin/products/{id}.
func DeleteProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		if err := catalogService.Delete(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to delete product", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resp := AdminMessageResponse{Message: "Product removed successfully"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
