package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
)

// OrderAdder - та часть журнала заказов, которая нужна приёму заказов
type OrderAdder interface {
	AddOrder(ctx context.Context, fields model.OrderFields) (model.Order, error)
}

// IntakeService принимает заполненную форму заказа
type IntakeService struct {
	orders OrderAdder
	log    *slog.Logger
}

func NewIntakeService(orders OrderAdder, log *slog.Logger) *IntakeService {
	return &IntakeService{orders: orders, log: log}
}

// Submit проверяет форму и, если всё в порядке, заводит заказ
// при ошибках формы возвращается model.FieldErrors со всеми полями сразу
func (s *IntakeService) Submit(ctx context.Context, form model.IntakeForm) (model.Order, error) {
	const op = "service.IntakeService.Submit"
	log := s.log.With(slog.String("op", op))

	if errs := form.Validate(); len(errs) > 0 {
		log.Debug("intake form rejected", slog.Int("fields", len(errs)))
		return model.Order{}, errs
	}

	fields, err := form.Fields()
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orders.AddOrder(ctx, fields)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order accepted", slog.Int64("order_id", order.ID), slog.String("product", order.ProductName))
	return order, nil
}

// SubmitPending дожидается фонового кодирования картинки товара и отправляет форму
// image == nil означает, что файл не выбран
// неудачное кодирование становится ошибкой поля productImage рядом с остальными ошибками формы
func (s *IntakeService) SubmitPending(ctx context.Context, form model.IntakeForm, image <-chan media.Result) (model.Order, error) {
	const op = "service.IntakeService.SubmitPending"

	var imageErr *model.FieldError
	if image != nil {
		select {
		case <-ctx.Done():
			return model.Order{}, fmt.Errorf("%s: %w", op, ctx.Err())
		case res, ok := <-image:
			switch {
			case !ok:
				imageErr = model.NewFieldError("productImage", model.ErrMissingField)
			case res.Err != nil:
				s.log.Warn("product image rejected", slog.String("op", op), slog.String("error", res.Err.Error()))
				kind := model.ErrInvalidFormat
				if errors.Is(res.Err, media.ErrEmpty) {
					kind = model.ErrMissingField
				}
				imageErr = model.NewFieldError("productImage", kind)
			default:
				form.ProductImage = res.DataURL
			}
		}
	}

	if imageErr == nil {
		return s.Submit(ctx, form)
	}

	errs := form.Validate()
	if errs == nil {
		errs = model.FieldErrors{}
	}
	errs["productImage"] = imageErr
	return model.Order{}, errs
}
