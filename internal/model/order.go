package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderFields - данные заказа, которые передаёт вызывающая сторона
// id и createdAt проставляет журнал заказов
type OrderFields struct {
	FullName      string          `json:"fullName" validate:"required"`
	Phone         string          `json:"phone" validate:"required,phone10"`
	Address       string          `json:"address" validate:"required"`
	ProductName   string          `json:"productName" validate:"required"`
	Price         decimal.Decimal `json:"price" validate:"positive_decimal"`
	PaymentStatus bool            `json:"paymentStatus"`
	ProductImage  string          `json:"productImage" validate:"required"`
}

// Order представляет заказ покупателя, заведённый владелицей магазина
// телефон хранится нормализованным (10 цифр), цена всегда > 0
type Order struct {
	ID int64 `json:"id" validate:"required"`
	OrderFields
	CreatedAt string `json:"createdAt"`
}

// Validate проверяет инварианты сохранённого заказа
func (o Order) Validate() FieldErrors {
	return check(o)
}

// Orders - упорядоченный журнал заказов (порядок вставки)
type Orders []Order

// Validate используется при загрузке из хранилища:
// любая битая запись делает весь журнал невалидным
// повторные id не проверяем: два заказа в одну миллисекунду получают одинаковый id,
// и такой журнал должен читаться так же, как был записан
func (orders Orders) Validate() error {
	for i, o := range orders {
		if errs := o.Validate(); len(errs) > 0 {
			return fmt.Errorf("order #%d: %w", i, errs)
		}
	}
	return nil
}

// OrderPatch - частичное обновление заказа, nil-поля не трогаются
type OrderPatch struct {
	FullName      *string          `json:"fullName,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Address       *string          `json:"address,omitempty"`
	ProductName   *string          `json:"productName,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	PaymentStatus *bool            `json:"paymentStatus,omitempty"`
	ProductImage  *string          `json:"productImage,omitempty"`
}

// Apply накладывает патч на копию заказа
func (p OrderPatch) Apply(o Order) Order {
	if p.FullName != nil {
		o.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Phone != nil {
		o.Phone = NormalizePhone(*p.Phone)
	}
	if p.Address != nil {
		o.Address = strings.TrimSpace(*p.Address)
	}
	if p.ProductName != nil {
		o.ProductName = strings.TrimSpace(*p.ProductName)
	}
	if p.Price != nil {
		o.Price = *p.Price
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.ProductImage != nil {
		o.ProductImage = *p.ProductImage
	}
	return o
}
