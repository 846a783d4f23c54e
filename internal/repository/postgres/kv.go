package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		name       TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// KVRepository хранит документы состояния витрины в таблице kv_store
type KVRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

var _ kv.Store = (*KVRepository)(nil)

// NewKVRepository создает новый экземпляр репозитория
func NewKVRepository(db *pgxpool.Pool) *KVRepository {
	return &KVRepository{
		db: db,
		// использую плейсхолдеры в стиле PostgreSQL ($1, $2, $3,...)
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnsureSchema создаёт таблицу, если её ещё нет
func (r *KVRepository) EnsureSchema(ctx context.Context) error {
	const op = "repository.postgres.kv.EnsureSchema"

	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает JSON-документ по ключу
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "repository.postgres.kv.Get"

	sql, args, err := r.sq.Select("value").From("kv_store").Where(squirrel.Eq{"name": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	var raw []byte
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("%s: failed to query value: %w", op, err)
	}
	return raw, nil
}

// Set вставляет документ или заменяет существующий (upsert)
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const op = "repository.postgres.kv.Set"

	sql, args, err := r.sq.Insert("kv_store").
		Columns("name", "value").
		Values(key, squirrel.Expr("?::jsonb", string(value))).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: failed to upsert value: %w", op, err)
	}
	return nil
}

// Delete удаляет документ, отсутствие строки не ошибка
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	const op = "repository.postgres.kv.Delete"

	sql, args, err := r.sq.Delete("kv_store").Where(squirrel.Eq{"name": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: failed to delete value: %w", op, err)
	}
	return nil
}

// Close закрывает пул соединений
func (r *KVRepository) Close() error {
	r.db.Close()
	return nil
}
