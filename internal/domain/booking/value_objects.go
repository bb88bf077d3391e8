package booking

import "errors"

var ErrNegativeAmount = errors.New("amount cannot be negative")

// Money is an amount in integer cents. Prices and totals never leave the
// cents representation inside the engine; decimal rendering belongs to
// the presentation layer.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) MulQuantity(qty int32) Money {
	return Money{cents: m.cents * int64(qty)}
}

// WithinTolerance reports whether other deviates from m by at most
// tolCents. One cent absorbs client-side decimal rounding; anything
// beyond it is a real price disagreement.
func (m Money) WithinTolerance(other Money, tolCents int64) bool {
	diff := m.cents - other.cents
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolCents
}
