package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
)

// OrderService ведёт журнал заказов
// каждое изменение сначала целиком пишется в хранилище и только потом видно в памяти
type OrderService struct {
	store StateStore
	log   *slog.Logger
	opts  options

	mu     sync.RWMutex
	orders model.Orders
}

// NewOrderService создаёт журнал и поднимает его содержимое из хранилища
func NewOrderService(ctx context.Context, store StateStore, log *slog.Logger, opts ...Option) (*OrderService, error) {
	const op = "service.NewOrderService"

	saved, _, err := kv.Load[model.Orders](ctx, store, KeyCustomerOrders, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if saved == nil {
		saved = model.Orders{}
	}

	log.Info("orders restored", slog.String("op", op), slog.Int("orders_count", len(saved)))
	return &OrderService{
		store:  store,
		log:    log,
		opts:   buildOptions(opts),
		orders: saved,
	}, nil
}

// AddOrder заводит новый заказ: id - миллисекунды текущего времени,
// createdAt - время в человекочитаемом виде
// два заказа в одну миллисекунду получат одинаковый id
func (s *OrderService) AddOrder(ctx context.Context, fields model.OrderFields) (model.Order, error) {
	const op = "service.OrderService.AddOrder"
	log := s.log.With(slog.String("op", op))

	fields.FullName = strings.TrimSpace(fields.FullName)
	fields.Phone = model.NormalizePhone(fields.Phone)
	fields.Address = strings.TrimSpace(fields.Address)
	fields.ProductName = strings.TrimSpace(fields.ProductName)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	order := model.Order{
		ID:          now.UnixMilli(),
		OrderFields: fields,
		CreatedAt:   s.opts.stamp(now),
	}
	if errs := order.Validate(); len(errs) > 0 {
		return model.Order{}, fmt.Errorf("%s: %w", op, errs)
	}

	next := append(slices.Clone(s.orders), order)
	if err := kv.Save(ctx, s.store, KeyCustomerOrders, next); err != nil {
		log.Error("failed to persist orders", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.orders = next
	log.Info("order added", slog.Int64("order_id", order.ID))
	return order, nil
}

// DeleteOrder убирает все заказы с таким id
// если ничего не нашлось, хранилище не трогается и возвращается false
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) (bool, error) {
	const op = "service.OrderService.DeleteOrder"
	log := s.log.With(slog.String("op", op), slog.Int64("order_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.orders), func(o model.Order) bool { return o.ID == id })
	if len(next) == len(s.orders) {
		log.Debug("order not found")
		return false, nil
	}

	if err := kv.Save(ctx, s.store, KeyCustomerOrders, next); err != nil {
		log.Error("failed to persist orders", slog.String("error", err.Error()))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.orders = next
	log.Info("order deleted")
	return true, nil
}

// UpdateOrder накладывает патч на заказ и перепроверяет результат
// при совпадающих id патч применяется ко всем таким заказам, возвращается первый
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) (model.Order, bool, error) {
	const op = "service.OrderService.UpdateOrder"
	log := s.log.With(slog.String("op", op), slog.Int64("order_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.orders)
	var (
		updated model.Order
		found   bool
	)
	for i, o := range next {
		if o.ID != id {
			continue
		}
		patched := patch.Apply(o)
		if errs := patched.Validate(); len(errs) > 0 {
			return model.Order{}, true, fmt.Errorf("%s: %w", op, errs)
		}
		next[i] = patched
		if !found {
			updated, found = patched, true
		}
	}
	if !found {
		log.Debug("order not found")
		return model.Order{}, false, nil
	}

	if err := kv.Save(ctx, s.store, KeyCustomerOrders, next); err != nil {
		log.Error("failed to persist orders", slog.String("error", err.Error()))
		return model.Order{}, true, fmt.Errorf("%s: %w", op, err)
	}

	s.orders = next
	log.Info("order updated", slog.Bool("paid", updated.PaymentStatus))
	return updated, true, nil
}

// List отдаёт копию журнала в порядке добавления
func (s *OrderService) List() model.Orders {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

// Get ищет первый заказ с таким id
func (s *OrderService) Get(id int64) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.orders, func(o model.Order) bool { return o.ID == id })
	if i < 0 {
		return model.Order{}, false
	}
	return s.orders[i], true
}
