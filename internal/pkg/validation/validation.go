package validation

import (
	"regexp"
)

// Currency codes are ISO-4217-ish but deliberately loose: exchanges and
// manual entries use things like "USDT", so 3-10 letters is accepted.
var currencyRe = regexp.MustCompile(`^[A-Za-z]{3,10}$`)

// Symbols: letters, digits, dots and hyphens (e.g. BRK.B, BTC-USD).
var symbolRe = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,40}$`)

// Names: letters, digits, spaces, hyphens, apostrophes.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9\s\-']+$`)

func IsValidCurrencyCode(code string) bool {
	return currencyRe.MatchString(code)
}

func IsValidSymbol(symbol string) bool {
	return symbolRe.MatchString(symbol)
}

func IsValidName(name string) bool {
	return name != "" && nameRe.MatchString(name)
}
