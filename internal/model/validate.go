package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

var tenDigits = regexp.MustCompile(`^[0-9]{10}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// в ошибках используем json-имена полей, их же видит клиент
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimal.Decimal валидируется как строка
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "phone10", func(fl validator.FieldLevel) bool {
		return tenDigits.MatchString(NormalizePhone(fl.Field().String()))
	})
	mustRegister(v, "positive_decimal", func(fl validator.FieldLevel) bool {
		_, ok := ParsePrice(fl.Field().String())
		return ok
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// NormalizePhone убирает из номера пробелы и дефисы
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, phone)
}

// ParsePrice разбирает цену и проверяет, что она строго больше нуля
func ParsePrice(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// fieldMessages - тексты ошибок, которые показываются рядом с полями формы
var fieldMessages = map[string][2]string{
	// поле: {пустое, неверный формат}
	"id":           {"id is required", "id is invalid"},
	"fullName":     {"Full Name is required", "Full Name is invalid"},
	"phone":        {"Phone Number is required", "Phone number must be 10 digits"},
	"address":      {"Address is required", "Address is invalid"},
	"productName":  {"Product Name is required", "Product Name is invalid"},
	"productImage": {"Product Image is required", "Product Image must be an image file"},
	"price":        {"Price is required", "Price must be a valid positive number"},
	"src":          {"image data is required", "image data is invalid"},
}

// NewFieldError собирает ошибку поля с тем же текстом, что даёт валидатор
// kind - ErrMissingField или ErrInvalidFormat
func NewFieldError(field string, kind error) *FieldError {
	idx := 1
	if errors.Is(kind, ErrMissingField) {
		idx = 0
	}
	msg := field + " is invalid"
	if m, ok := fieldMessages[field]; ok {
		msg = m[idx]
	}
	return &FieldError{Field: field, Err: kind, Message: msg}
}

// check прогоняет валидатор по структуре и раскладывает ошибки по полям
func check(s interface{}) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// сюда попадаем только если передали не структуру
		panic(err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		kind := ErrInvalidFormat
		if fe.Tag() == "required" {
			kind = ErrMissingField
		}
		out[fe.Field()] = NewFieldError(fe.Field(), kind)
	}
	return out
}
