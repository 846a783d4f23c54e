package cache

import (
	"context"
	"sync"

	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
)

// Store - потокобезопасное in-memory key-value хранилище
// данные живут, пока живёт процесс; используется в тестах и для локального запуска
type Store struct {
	// sync.Map выбрал для обеспечения потокобезопасности
	// ключ - string, значение - []byte (копия JSON-документа)
	storage sync.Map
}

var _ kv.Store = (*Store)(nil)

// NewStore создаёт новый экземпляр хранилища
func NewStore() *Store {
	return &Store{}
}

// Get извлекает документ по ключу
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := s.storage.Load(key)
	if !ok {
		return nil, kv.ErrNotFound
	}

	// выполняем безопасное приведение типа
	raw, ok := value.([]byte)
	if !ok {
		return nil, kv.ErrNotFound
	}
	return clone(raw), nil
}

// Set добавляет или заменяет документ
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.storage.Store(key, clone(value))
	return nil
}

// Delete удаляет документ
func (s *Store) Delete(_ context.Context, key string) error {
	s.storage.Delete(key)
	return nil
}

// Close ничего не делает, нужен для соответствия kv.Store
func (s *Store) Close() error {
	return nil
}

// LoadAll заливает в хранилище набор документов разом
// используется для первоначального заполнения (например, в тестах)
func (s *Store) LoadAll(docs map[string][]byte) {
	for key, value := range docs {
		s.storage.Store(key, clone(value))
	}
}

// снаружи могут менять переданный срез, поэтому храним копию
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
