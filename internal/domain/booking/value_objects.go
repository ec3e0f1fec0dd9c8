package booking

import "errors"

type Money struct {
	cents int32
}

func NewMoney(cents int32) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int32 {
	return m.cents
}

// Percent returns pct% of m, truncated to whole cents.
func (m Money) Percent(pct int) Money {
	return Money{cents: int32(int64(m.cents) * int64(pct) / 100)}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}
