package currency

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Converter maps amounts between foreign currencies and a base currency
// using a fixed table of foreign→base rates. It is pure: the table is read
// only, so a Converter can be shared across goroutines freely. Construct one
// per computation from settings rather than reading globals.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

// Result is a converted amount plus a flag telling the caller the rate was
// missing and the conversion degraded to identity. Missing rates are fail-open
// on purpose (legacy behavior: a wallet in an unknown currency still counts at
// face value rather than erroring the whole total) but the degradation must be
// observable, since it silently distorts totals otherwise.
type Result struct {
	Amount      decimal.Decimal
	RateMissing bool
}

// New builds a Converter. Currency codes are compared case-insensitively;
// the rate for the base currency itself is implicitly 1.
func New(baseCurrency string, rates map[string]decimal.Decimal) *Converter {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &Converter{base: strings.ToUpper(baseCurrency), rates: normalized}
}

// Base returns the base currency code (upper-cased).
func (c *Converter) Base() string {
	return c.base
}

// ToBase converts amount from sourceCurrency into the base currency.
// Base currency and unknown currencies pass through unchanged.
func (c *Converter) ToBase(amount decimal.Decimal, sourceCurrency string) Result {
	code := strings.ToUpper(sourceCurrency)
	if code == c.base {
		return Result{Amount: amount}
	}
	rate, ok := c.rates[code]
	if !ok {
		log.Warn().Str("currency", code).Str("base", c.base).Msg("no exchange rate, converting as identity")
		return Result{Amount: amount, RateMissing: true}
	}
	return Result{Amount: amount.Mul(rate)}
}

// FromBase converts a base-currency amount into targetCurrency by dividing
// by the rate. A zero rate is treated like a missing one: identity, never a
// division by zero.
func (c *Converter) FromBase(amount decimal.Decimal, targetCurrency string) Result {
	code := strings.ToUpper(targetCurrency)
	if code == c.base {
		return Result{Amount: amount}
	}
	rate, ok := c.rates[code]
	if !ok || rate.IsZero() {
		log.Warn().Str("currency", code).Str("base", c.base).Msg("no usable exchange rate, converting as identity")
		return Result{Amount: amount, RateMissing: true}
	}
	return Result{Amount: amount.Div(rate)}
}

// Convert pivots amount from one currency to another through the base.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) Result {
	inBase := c.ToBase(amount, from)
	out := c.FromBase(inBase.Amount, to)
	out.RateMissing = out.RateMissing || inBase.RateMissing
	return out
}
