package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits carried by every amount.
const moneyScale = 2

// Money is an exact decimal amount with two fractional digits. The zero
// value is 0.00 and ready to use. Money itself allows negative values;
// whether a negative balance is permitted is an account-level rule.
type Money struct {
	d decimal.Decimal
}

// ParseMoney parses a decimal string such as "150.00" or "-3.5".
// Non-numeric input or more than two fractional digits of precision
// fail with ErrInvalidAmount.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("ParseMoney: %q is not a decimal number: %w", s, ErrInvalidAmount)
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts a decimal, rejecting values that carry
// precision beyond two fractional digits.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(moneyScale)) {
		return Money{}, fmt.Errorf("MoneyFromDecimal: %s has more than %d fractional digits: %w", d, moneyScale, ErrInvalidAmount)
	}
	return Money{d: d}, nil
}

// MustMoney parses s or panics. For fixed test and seed values only.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// Cmp returns -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(moneyScale)
}

func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) Value() (driver.Value, error) {
	return m.d.StringFixed(moneyScale), nil
}

func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("Money.Scan: %w", err)
	}
	m.d = d
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.d.StringFixed(moneyScale) + `"`), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
