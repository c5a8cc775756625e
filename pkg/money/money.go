// Package money renders integer minor-unit amounts for logs and event
// payloads. Amounts are stored and transported as int64 minor units only;
// decimal strings here are display output, never input.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies have no minor unit, so the stored amount is already
// the major-unit amount.
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

// Exponent returns the number of minor-unit digits for a currency code.
func Exponent(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]; ok {
		return 0
	}
	return 2
}

// FormatMinorUnits renders an amount of minor units as an exact decimal
// string, e.g. (12345, "usd") -> "123.45" and (500, "jpy") -> "500".
func FormatMinorUnits(amount int64, currency string) string {
	return decimal.New(amount, -Exponent(currency)).StringFixed(Exponent(currency))
}

// FormatWithCurrency renders "123.45 USD" for human-facing log lines.
func FormatWithCurrency(amount int64, currency string) string {
	return FormatMinorUnits(amount, currency) + " " + strings.ToUpper(currency)
}
