package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/linemk/novacart/internal/config"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Redis  *redis.Client // nil, если кэш не сконфигурирован или недоступен
}

// NewApp создаёт новый экземпляр App: подключение к БД обязательно,
// redis — best-effort, без него сервис работает с выключенным кэшем
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	// реализуем подключение к БД через DSN
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("failed to connect to redis, caching disabled",
				slog.String("address", cfg.Redis.Address), slog.Any("error", err))
			_ = redisClient.Close()
			redisClient = nil
		}
	}

	app := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  redisClient,
	}

	return app, nil
}
