package utils

import (
	"github.com/shopspring/decimal"
)

// CurrencyPrecision is the number of decimal places of the network's single currency.
const CurrencyPrecision = 2

// FormatAmount formats an amount with the currency precision.
// Example: 12.3456 returns "12.35", 5 returns "5.00"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(CurrencyPrecision)
}

// HasCurrencyPrecision reports whether amount has no more decimal places than the currency allows.
func HasCurrencyPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(CurrencyPrecision))
}
