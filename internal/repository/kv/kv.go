// Package kv описывает постоянное key-value хранилище состояния витрины
// и типизированные помощники для чтения/записи JSON-документов по ключу
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound возвращается бэкендом, если ключ никогда не записывался
var ErrNotFound = errors.New("key not found")

// Reader читает документ по ключу, ErrNotFound если ключа нет
type Reader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Writer заменяет или удаляет документ
type Writer interface {
	Set(ctx context.Context, key string, value []byte) error
	// Delete удаляет ключ, отсутствие ключа ошибкой не считается
	Delete(ctx context.Context, key string) error
}

// Store - контракт хранилища: один JSON-документ на ключ, без транзакций между ключами
type Store interface {
	Reader
	Writer
	Close() error
}

// Validator реализуют типы, которые умеют проверять себя после загрузки
type Validator interface {
	Validate() error
}

// Load читает значение по ключу и декодирует его в T
// отсутствующий ключ, битый JSON и несоответствие схеме дают (zero, false, nil):
// такое значение считается отсутствующим, наружу ошибка не пробрасывается
// ошибку возвращаем только при сбое самого хранилища
func Load[T any](ctx context.Context, store Reader, key string, log *slog.Logger) (T, bool, error) {
	const op = "repository.kv.Load"
	var zero T

	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("%s: %s: %w", op, key, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, false, nil
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		log.Warn("stored value is not valid JSON, using default",
			slog.String("key", key), slog.Int("bytes", len(raw)), slog.String("error", err.Error()))
		return zero, false, nil
	}

	if vv, ok := any(v).(Validator); ok {
		if err := vv.Validate(); err != nil {
			log.Warn("stored value does not match schema, using default",
				slog.String("key", key), slog.String("error", err.Error()))
			return zero, false, nil
		}
	}

	return v, true, nil
}

// Save сериализует значение в JSON и заменяет им всё, что было под ключом
func Save(ctx context.Context, store Writer, key string, v any) error {
	const op = "repository.kv.Save"

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal %s: %w", op, key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}
	return nil
}

// Remove удаляет ключ целиком
func Remove(ctx context.Context, store Writer, key string) error {
	const op = "repository.kv.Remove"

	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}
	return nil
}
