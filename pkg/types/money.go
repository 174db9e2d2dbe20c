package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatCents renders integer cents as a two-decimal amount string, e.g.
// 20000 -> "200.00".
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}

// ParseAmountToCents converts a decimal amount string ("99.99") into integer
// cents, rejecting negative amounts and sub-cent precision.
func ParseAmountToCents(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", amount)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", amount)
	}
	return cents.IntPart(), nil
}
