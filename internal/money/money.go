// Package money provides the fixed-point decimal primitives used by the
// ledger. All monetary values carry exactly two fractional digits and every
// intermediate result is rounded half-up; float64 is never used on a money
// path.
package money

import "github.com/shopspring/decimal"

// Zero is the canonical 0.00 amount.
var Zero = decimal.Zero

// Round normalizes an amount to two fractional digits, rounding half-up.
// shopspring rounds halves away from zero; balances, prices, and fees are
// never negative here, so the result is identical to half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Mul multiplies an amount by an integer quantity and rounds to two digits.
func Mul(price decimal.Decimal, qty int) decimal.Decimal {
	return Round(price.Mul(decimal.NewFromInt(int64(qty))))
}

// Fee applies a fee rate to a gross amount and rounds to two digits.
func Fee(gross, rate decimal.Decimal) decimal.Decimal {
	return Round(gross.Mul(rate))
}

// Clamp restricts v into [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
