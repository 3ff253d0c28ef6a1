package utils

import (
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount for user-facing messages, e.g. "$24.60".
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
