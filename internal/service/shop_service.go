package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
)

// ShopService хранит флаг "магазин открыт"
type ShopService struct {
	store StateStore
	log   *slog.Logger

	mu   sync.RWMutex
	open bool
}

// NewShopService читает флаг из хранилища, по умолчанию магазин открыт
// начальное значение сразу записывается обратно
func NewShopService(ctx context.Context, store StateStore, log *slog.Logger) (*ShopService, error) {
	const op = "service.NewShopService"

	open, ok, err := kv.Load[bool](ctx, store, KeyShopIsOpen, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		open = true
	}

	if err := kv.Save(ctx, store, KeyShopIsOpen, open); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("shop state restored", slog.String("op", op), slog.Bool("open", open))
	return &ShopService{store: store, log: log, open: open}, nil
}

// Toggle переключает флаг и возвращает новое значение
func (s *ShopService) Toggle(ctx context.Context) (bool, error) {
	const op = "service.ShopService.Toggle"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	next := !s.open
	if err := kv.Save(ctx, s.store, KeyShopIsOpen, next); err != nil {
		log.Error("failed to persist shop state", slog.String("error", err.Error()))
		return s.open, fmt.Errorf("%s: %w", op, err)
	}

	s.open = next
	log.Info("shop state toggled", slog.Bool("open", next))
	return next, nil
}

// IsOpen сообщает, принимает ли магазин заказы
func (s *ShopService) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}
