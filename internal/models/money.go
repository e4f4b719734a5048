package models

import "github.com/shopspring/decimal"

// CurrencySymbol prefixes every rendered amount
const CurrencySymbol = "₹"

// FormatAmount renders an amount with the currency symbol and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}
