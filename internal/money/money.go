// Package money implements the fixed-point milliunit value type used for
// every monetary quantity in the core. 1 unit of account = 1000
// milliunits; there is no floating-point path anywhere in this package.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const milliunitsPerUnit = 1000

// Money is a signed count of milliunits.
type Money int64

// Zero is the additive identity.
var Zero Money = 0

// Of constructs a Money from a decimal amount, scaling by 1000 with
// half-up rounding at scale 0 (P1).
func Of(d decimal.Decimal) Money {
	scaled := d.Mul(decimal.NewFromInt(milliunitsPerUnit)).Round(0)
	return Money(scaled.IntPart())
}

// OfMilliunits constructs a Money directly from a milliunit count.
func OfMilliunits(milliunits int64) Money {
	return Money(milliunits)
}

// ParseString parses a decimal string (e.g. "-12.345") into Money. It
// never fails on precision loss; it fails only when the string is not a
// valid decimal.
func ParseString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Of(d), nil
}

// Milliunits returns the raw milliunit count.
func (m Money) Milliunits() int64 {
	return int64(m)
}

// ToDecimal projects Money back to a decimal with scale 2, half-up
// rounding (P1, I2).
func (m Money) ToDecimal() decimal.Decimal {
	d := decimal.NewFromInt(int64(m)).Div(decimal.NewFromInt(milliunitsPerUnit))
	return d.Round(2)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) Money {
	return m - other
}

// Neg returns -m.
func (m Money) Neg() Money {
	return -m
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsNegative reports whether m is strictly less than zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Equal reports whether two Money values represent the same milliunit
// count.
func (m Money) Equal(other Money) bool {
	return m == other
}

// String renders the decimal projection, e.g. "-12.35".
func (m Money) String() string {
	return m.ToDecimal().StringFixed(2)
}
