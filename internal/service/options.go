package service

import (
	"math/rand/v2"
	"time"

	"github.com/asquebay/dreamgirl-boutique/internal/model"
)

type options struct {
	now  Clock
	loc  *time.Location
	rand func() float64
}

// Option настраивает сервисы состояния
type Option func(*options)

// WithClock подменяет источник текущего времени
func WithClock(now Clock) Option {
	return func(o *options) { o.now = now }
}

// WithLocation задаёт часовой пояс для человекочитаемых дат
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithRandom подменяет генератор дробной части id картинок
func WithRandom(fn func() float64) Option {
	return func(o *options) { o.rand = fn }
}

func buildOptions(opts []Option) options {
	o := options{
		now:  time.Now,
		loc:  time.Local,
		rand: rand.Float64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) stamp(t time.Time) string {
	return model.FormatLocale(t.In(o.loc))
}
