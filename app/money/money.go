// Package money formats decimal amounts for display.
package money

import (
	"github.com/shopspring/decimal"
)

// Format renders amount with a literal currency symbol and exactly two
// decimals, e.g. "£12.50". Negative amounts render as "-£12.50".
func Format(symbol string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}
