package model

import (
	"fmt"
	"strings"
)

// IntakeForm - сырые данные формы нового заказа, как их ввели
type IntakeForm struct {
	FullName      string `json:"fullName" validate:"required"`
	Phone         string `json:"phone" validate:"required,phone10"`
	Address       string `json:"address" validate:"required"`
	ProductName   string `json:"productName" validate:"required"`
	Price         string `json:"price" validate:"required,positive_decimal"`
	PaymentStatus bool   `json:"paymentStatus"`
	// ProductImage - уже закодированная картинка (data URL)
	ProductImage string `json:"productImage" validate:"required"`
}

// Validate проверяет все поля разом и возвращает ошибки по каждому из них
// пустой результат означает, что форма валидна
func (f IntakeForm) Validate() FieldErrors {
	return check(f.trimmed())
}

// Fields превращает валидную форму в поля заказа
func (f IntakeForm) Fields() (OrderFields, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return OrderFields{}, errs
	}

	t := f.trimmed()
	price, ok := ParsePrice(t.Price)
	if !ok {
		// Validate уже отсеял такие значения
		return OrderFields{}, fmt.Errorf("price %q: %w", t.Price, ErrInvalidFormat)
	}

	return OrderFields{
		FullName:      t.FullName,
		Phone:         NormalizePhone(t.Phone),
		Address:       t.Address,
		ProductName:   t.ProductName,
		Price:         price,
		PaymentStatus: t.PaymentStatus,
		ProductImage:  t.ProductImage,
	}, nil
}

func (f IntakeForm) trimmed() IntakeForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.ProductName = strings.TrimSpace(f.ProductName)
	f.Price = strings.TrimSpace(f.Price)
	f.ProductImage = strings.TrimSpace(f.ProductImage)
	return f
}
