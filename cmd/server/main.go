package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/linemk/novacart/internal/app"
	"github.com/linemk/novacart/internal/app/handlers"
	"github.com/linemk/novacart/internal/cache"
	"github.com/linemk/novacart/internal/config"
	"github.com/linemk/novacart/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/novacart/internal/lib/logger"
	"github.com/linemk/novacart/internal/lib/logger/handlers/urllog"
	"github.com/linemk/novacart/internal/service"
	"github.com/linemk/novacart/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// .env для локального запуска; в остальных окружениях переменные заданы снаружи
	_ = godotenv.Load()

	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	// кэш каталога включается только при доступном redis
	var catalogCache cache.CatalogCache
	if application.Redis != nil {
		catalogCache = cache.NewCatalogCache(log, application.Redis, cfg.Redis.CacheTTL)
	}

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	catalogService := service.NewCatalogService(application.Logger, productRepo, catalogCache)
	cartService := service.NewCartService(application.Logger, application.DB, cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(application.Logger, application.DB, cartRepo, orderRepo)
	orderService := service.NewOrderHistoryService(application.Logger, orderRepo)

	// публичные эндпоинты: регистрация, вход, просмотр каталога
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))
	router.Get("/api/products", handlers.ProductsHandler(application.Logger, catalogService))
	router.Get("/api/products/categories", handlers.CategoriesHandler(application.Logger, catalogService))
	router.Get("/api/products/{id}/image", handlers.ProductImageHandler(application.Logger, catalogService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)
		// корзина
		r.Get("/api/cart", handlers.CartHandler(application.Logger, cartService))
		r.Post("/api/cart", handlers.AddToCartHandler(application.Logger, cartService))
		r.Delete("/api/cart/{id}", handlers.RemoveFromCartHandler(application.Logger, cartService))
		// оформление заказа и история
		r.Post("/api/checkout", handlers.CheckoutHandler(application.Logger, checkoutService))
		r.Get("/api/orders", handlers.OrdersHandler(application.Logger, orderService))
		// админка каталога
		r.Post("/api/admin/products", handlers.CreateProductHandler(application.Logger, catalogService))
		r.Put("/api/admin/products/{id}", handlers.UpdateProductHandler(application.Logger, catalogService))
		r.Delete("/api/admin/products/{id}", handlers.DeleteProductHandler(application.Logger, catalogService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	if application.Redis != nil {
		if err := application.Redis.Close(); err != nil {
			log.Error("redis close failed", slog.Any("error", err))
		}
	}
	log.Info("server gracefully stopped")
}
