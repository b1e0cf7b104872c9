package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitsPerMajor is the number of öre in one krona
const minorUnitsPerMajor = 100

var hundred = decimal.NewFromInt(minorUnitsPerMajor)

// Money is a non-negative amount in major currency units (kronor).
// The zero value is 0.00 kr.
//
// Values are built by NormalizePrice for text and by MoneyFromMinorUnits for
// integer öre; there is no constructor taking a bare float.
type Money struct {
	amount decimal.Decimal
}

// Zero returns 0.00 kr
func Zero() Money {
	return Money{}
}

// MoneyFromMinorUnits converts an integer öre amount into Money.
// This is the only place minor units enter the domain.
func MoneyFromMinorUnits(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, fmt.Errorf("%w: %d öre", ErrNegativeAmount, minor)
	}
	return Money{amount: decimal.NewFromInt(minor).Div(hundred)}, nil
}

// MinorUnits returns the amount in öre, rounded half away from zero.
func (m Money) MinorUnits() int64 {
	return m.amount.Mul(hundred).Round(0).IntPart()
}

// Add returns m + o
func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

// Minus returns m - o, floored at zero so the result is still a valid amount.
func (m Money) Minus(o Money) Money {
	d := m.amount.Sub(o.amount)
	if d.IsNegative() {
		return Money{}
	}
	return Money{amount: d}
}

// Times returns m multiplied by a line quantity. Quantities below zero yield zero.
func (m Money) Times(quantity int) Money {
	if quantity <= 0 {
		return Money{}
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Cmp compares m and o and returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

// GreaterThan reports whether m > o
func (m Money) GreaterThan(o Money) bool {
	return m.amount.GreaterThan(o.amount)
}

// Equal reports whether m and o represent the same amount, ignoring scale.
func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// IsZero reports whether the amount is 0
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Decimal exposes the underlying amount for callers that need arbitrary precision.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String formats the amount with two decimals, e.g. "24.90".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or numeric string in major units.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	if d.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, d.String())
	}
	m.amount = d
	return nil
}

// MoneyPtr returns a pointer to a copy of m, for optional record fields.
func MoneyPtr(m Money) *Money {
	return &m
}
