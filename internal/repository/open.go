package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asquebay/dreamgirl-boutique/internal/config"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/cache"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/postgres"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/sqlite"
)

// Open создаёт key-value хранилище по настройкам storage.driver
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, error) {
	const op = "repository.Open"

	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("using in-memory storage, state is lost on restart")
		return cache.NewStore(), nil

	case "sqlite":
		repo, err := sqlite.New(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("sqlite storage opened", slog.String("path", cfg.Storage.SQLitePath))
		return repo, nil

	case "postgres":
		dbpool, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		repo := postgres.NewKVRepository(dbpool)
		if err := repo.EnsureSchema(ctx); err != nil {
			dbpool.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("successfully connected to postgres")
		return repo, nil

	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
}
