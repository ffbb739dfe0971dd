// Package money holds room rates, booking totals and refunds as integer
// paise. Rule multipliers work on float64 minor units and come back here
// through Round.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultCurrency is the settlement currency of every branch.
const DefaultCurrency = "INR"

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

type Money struct {
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

// New accepts any three letter code, case-insensitively.
func New(amount int64, currency string) (Money, error) {
	code, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: amount, Currency: code}, nil
}

// Must is New for fixtures and seed data.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(fmt.Sprintf("money.Must(%d, %q): %v", amount, currency, err))
	}
	return m
}

// FromMajor converts rupees to paise. An empty currency means INR.
func FromMajor(rupees float64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: Round(rupees * 100), Currency: strings.ToUpper(currency)}
}

// Round rounds half away from zero, so 0.5 paise becomes 1.
func Round(minor float64) int64 {
	return int64(math.Round(minor))
}

func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}

func (m Money) Add(other Money) (Money, error) {
	return m.combine(other, 1)
}

func (m Money) Sub(other Money) (Money, error) {
	return m.combine(other, -1)
}

// Multiply is used for base rate times nights.
func (m Money) Multiply(times int64) Money {
	m.Amount *= times
	return m
}

// Percent returns percent/100 of m truncated to whole paise. Refund tiers
// rely on truncation: a 50% refund of 999 paise is 499.
func (m Money) Percent(percent int) Money {
	if percent <= 0 {
		return Money{Currency: m.Currency}
	}
	m.Amount = m.Amount * int64(percent) / 100
	return m
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Major(), m.Currency)
}

func (m Money) combine(other Money, sign int64) (Money, error) {
	switch {
	case m.Currency == "" || other.Currency == "":
		return Money{}, ErrInvalidCurrency
	case m.Currency != other.Currency:
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	m.Amount += sign * other.Amount
	return m, nil
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}
