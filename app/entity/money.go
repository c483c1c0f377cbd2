package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies whose amounts are already expressed in whole units.
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

func IsZeroDecimalCurrency(currency string) bool {
	_, ok := zeroDecimalCurrencies[strings.ToLower(strings.TrimSpace(currency))]
	return ok
}

// FormatAmount renders an amount in minor units as a human readable value,
// e.g. 1250 usd -> "12.50 USD".
func FormatAmount(amount int64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if IsZeroDecimalCurrency(currency) {
		return decimal.New(amount, 0).StringFixed(0) + " " + code
	}
	return decimal.New(amount, -2).StringFixed(2) + " " + code
}
