package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
)

// SessionService держит состояние входа владелицы магазина
// запись идёт сначала в хранилище, потом в память
type SessionService struct {
	store StateStore
	log   *slog.Logger

	mu    sync.RWMutex
	state model.Session
}

// NewSessionService поднимает сохранённую сессию из хранилища
// отсутствующее или битое значение означает "не вошла"
func NewSessionService(ctx context.Context, store StateStore, log *slog.Logger) (*SessionService, error) {
	const op = "service.NewSessionService"

	saved, ok, err := kv.Load[model.Session](ctx, store, KeyOwnerAuth, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &SessionService{store: store, log: log}
	if ok {
		s.state = saved
	}
	log.Debug("session restored", slog.String("op", op), slog.Bool("logged_in", s.state.IsLoggedIn))

	return s, nil
}

// Login отмечает владелицу вошедшей под именем ownerName
func (s *SessionService) Login(ctx context.Context, ownerName string) error {
	const op = "service.SessionService.Login"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	next := model.Session{IsLoggedIn: true, OwnerName: ownerName}
	if err := kv.Save(ctx, s.store, KeyOwnerAuth, next); err != nil {
		log.Error("failed to persist session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.state = next
	log.Info("owner logged in", slog.String("owner", ownerName))
	return nil
}

// Logout сбрасывает сессию и удаляет ключ из хранилища
func (s *SessionService) Logout(ctx context.Context) error {
	const op = "service.SessionService.Logout"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := kv.Remove(ctx, s.store, KeyOwnerAuth); err != nil {
		log.Error("failed to remove session", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.state = model.Session{}
	log.Info("owner logged out")
	return nil
}

// Current возвращает текущее состояние сессии
func (s *SessionService) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
