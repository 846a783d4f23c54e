package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrMissingField - обязательное поле пустое
	ErrMissingField = errors.New("missing field")
	// ErrInvalidFormat - поле заполнено, но значение некорректно (телефон, цена)
	ErrInvalidFormat = errors.New("invalid format")
)

// FieldError описывает ошибку одного поля формы
// Message - готовый текст, который показывается рядом с полем
type FieldError struct {
	Field   string
	Err     error
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors собирает ошибки всех полей сразу, ключ - json-имя поля
type FieldErrors map[string]*FieldError

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fe[field].Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages возвращает карту поле -> текст ошибки для ответа клиенту
func (fe FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(fe))
	for field, e := range fe {
		out[field] = e.Message
	}
	return out
}

// Is позволяет проверять errors.Is(err, ErrMissingField) на всём наборе
func (fe FieldErrors) Is(target error) bool {
	for _, e := range fe {
		if errors.Is(e.Err, target) {
			return true
		}
	}
	return false
}
