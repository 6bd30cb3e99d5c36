// Package jitter добавляет случайный разброс к интервалам повторов,
// чтобы фоновые задачи не повторялись синхронно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultFactor: разброс по умолчанию (до +50%).
const DefaultFactor = 0.5

// Duration возвращает значение из диапазона [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	return spread(d, factor, rand.Float64)
}

// Backoff: экспоненциальная политика повторов с разбросом.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64

	rnd func() float64 // nil: глобальный генератор
}

// NewBackoff создаёт политику с DefaultFactor.
func NewBackoff(base, max time.Duration) Backoff {
	return Backoff{Base: base, Max: max, Factor: DefaultFactor}
}

// Delay возвращает паузу перед попыткой attempt (нумерация с нуля).
// Без разброса пауза равна min(Base*2^attempt, Max).
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt && d < b.Max; i++ {
		d *= 2
	}
	d = min(d, b.Max)

	rnd := b.rnd
	if rnd == nil {
		rnd = rand.Float64
	}

	return spread(d, b.Factor, rnd)
}

func spread(d time.Duration, factor float64, rnd func() float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	return d + time.Duration(rnd()*factor*float64(d))
}
