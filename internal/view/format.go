package view

import (
	"strings"

	"bookkeeping/internal/models"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"MXN": "$",
}

// CurrencySymbol falls back to "$" for unknown codes.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return s
	}
	return "$"
}

// FormatCurrency renders amount with two decimals and no thousands separators.
func FormatCurrency(settings models.Settings, amount decimal.Decimal) string {
	return CurrencySymbol(settings.Currency) + amount.StringFixed(2)
}
