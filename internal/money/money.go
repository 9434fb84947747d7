// Package money provides the fixed-point currency type used by the ledger.
//
// All balance arithmetic happens in integer minor units (paise) so that
// sums are exact; decimal conversion is confined to the API boundary.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Paise is an amount in minor currency units (1/100 of a rupee).
type Paise int64

// Parse converts a decimal string such as "123.45" into minor units.
// Amounts with more than two decimal places are rejected.
func Parse(s string) (Paise, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into minor units.
func FromDecimal(d decimal.Decimal) (Paise, error) {
	minor := d.Mul(decimal.New(1, 2))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-paise precision", d.String())
	}
	return Paise(minor.IntPart()), nil
}

// Decimal returns the amount in display currency units.
func (p Paise) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -2)
}

// String formats the amount with exactly two decimal places, e.g. "123.45".
// Payment deep links require this format; "1.5" is rejected by UPI apps.
func (p Paise) String() string {
	return p.Decimal().StringFixed(2)
}

// Abs returns the magnitude of the amount.
func (p Paise) Abs() Paise {
	if p < 0 {
		return -p
	}
	return p
}
