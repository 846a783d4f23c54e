package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // драйвер SQLite на чистом Go
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// KVRepository хранит документы состояния в файле SQLite
type KVRepository struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

var _ kv.Store = (*KVRepository)(nil)

// New открывает (или создаёт) файл базы и таблицу kv_store
func New(ctx context.Context, path string) (*KVRepository, error) {
	const op = "repository.sqlite.New"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}
	// SQLite не любит параллельных писателей, одного соединения хватает
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to create schema: %w", op, err)
	}

	return &KVRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Get возвращает JSON-документ по ключу
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "repository.sqlite.Get"

	query, args, err := r.sq.Select("value").From("kv_store").Where(squirrel.Eq{"name": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	var raw string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("%s: failed to query value: %w", op, err)
	}
	return []byte(raw), nil
}

// Set вставляет документ или заменяет существующий
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const op = "repository.sqlite.Set"

	query, args, err := r.sq.Insert("kv_store").
		Columns("name", "value").
		Values(key, string(value)).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to upsert value: %w", op, err)
	}
	return nil
}

// Delete удаляет документ
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	const op = "repository.sqlite.Delete"

	query, args, err := r.sq.Delete("kv_store").Where(squirrel.Eq{"name": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to delete value: %w", op, err)
	}
	return nil
}

// Close закрывает базу
func (r *KVRepository) Close() error {
	return r.db.Close()
}
