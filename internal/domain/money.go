package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied whenever a Money value is built without an
// explicit currency. The pipeline is single-currency; the field exists so
// stored results remain self-describing.
const DefaultCurrency = "USD"

// Money is an exact currency amount in integer minor units (cents).
//
// All additive arithmetic is exact int64 math. Factor operations (Scale,
// Div) run through decimal intermediates and truncate toward zero back to
// cents, so repeated calculations over the same inputs are bit-identical.
type Money struct {
	AmountCents int64  `yaml:"amount_cents" json:"amount_cents"`
	Currency    string `yaml:"currency" json:"currency"`
}

// NewMoney returns a USD amount from integer cents.
func NewMoney(cents int64) Money {
	return Money{AmountCents: cents, Currency: DefaultCurrency}
}

// ZeroMoney returns a zero USD amount.
func ZeroMoney() Money {
	return NewMoney(0)
}

// MoneyFromDecimal converts a dollar figure to Money, truncating any
// fraction of a cent toward zero.
func MoneyFromDecimal(dollars decimal.Decimal) Money {
	return Money{AmountCents: dollars.Mul(decimal.NewFromInt(100)).IntPart(), Currency: DefaultCurrency}
}

func (m Money) currency() string {
	if m.Currency == "" {
		return DefaultCurrency
	}
	return m.Currency
}

// Add returns m + o. The result keeps m's currency.
func (m Money) Add(o Money) Money {
	return Money{AmountCents: m.AmountCents + o.AmountCents, Currency: m.currency()}
}

// Sub returns m - o. The result keeps m's currency.
func (m Money) Sub(o Money) Money {
	return Money{AmountCents: m.AmountCents - o.AmountCents, Currency: m.currency()}
}

// Scale multiplies by an arbitrary factor, truncating toward zero to cents.
func (m Money) Scale(factor float64) Money {
	cents := decimal.NewFromInt(m.AmountCents).Mul(decimal.NewFromFloat(factor)).IntPart()
	return Money{AmountCents: cents, Currency: m.currency()}
}

// Div divides by an arbitrary divisor, truncating toward zero to cents.
// A zero divisor yields zero Money rather than an error; callers treat the
// degenerate case as data.
func (m Money) Div(divisor float64) Money {
	if divisor == 0 {
		return Money{AmountCents: 0, Currency: m.currency()}
	}
	cents := decimal.NewFromInt(m.AmountCents).Div(decimal.NewFromFloat(divisor)).IntPart()
	return Money{AmountCents: cents, Currency: m.currency()}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.AmountCents == 0
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.AmountCents > 0
}

// Cmp compares amounts, returning -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	switch {
	case m.AmountCents < o.AmountCents:
		return -1
	case m.AmountCents > o.AmountCents:
		return 1
	}
	return 0
}

// Dollars returns the amount as decimal dollars.
func (m Money) Dollars() decimal.Decimal {
	return decimal.New(m.AmountCents, -2)
}

// String formats the amount as a dollar figure, e.g. "$3,069.57".
func (m Money) String() string {
	d := m.Dollars()
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
