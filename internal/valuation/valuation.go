package valuation

import (
	"github.com/shopspring/decimal"
)

// Valuation is the computed worth of one holding lot. PercentChange is nil
// when the cost basis is zero — "no percent" is a distinct state from "0%"
// and must never come out of a division by zero.
type Valuation struct {
	CostBasis      decimal.Decimal  `json:"cost_basis"`
	MarketValue    decimal.Decimal  `json:"market_value"`
	UnrealizedGain decimal.Decimal  `json:"unrealized_gain"`
	PercentChange  *decimal.Decimal `json:"percent_change"`
	PricedAtCost   bool             `json:"priced_at_cost"`
}

var hundred = decimal.NewFromInt(100)

// ValuateLot computes cost basis, market value and gain for a lot.
// latestPrice nil means no price snapshot exists yet; the lot is then valued
// at cost (documented fallback, not an error) and PricedAtCost is set.
func ValuateLot(quantity, costPerUnit decimal.Decimal, latestPrice *decimal.Decimal) Valuation {
	costBasis := quantity.Mul(costPerUnit)

	v := Valuation{CostBasis: costBasis}
	if latestPrice != nil {
		v.MarketValue = quantity.Mul(*latestPrice)
	} else {
		v.MarketValue = costBasis
		v.PricedAtCost = true
	}

	v.UnrealizedGain = v.MarketValue.Sub(costBasis)
	if !costBasis.IsZero() {
		pct := v.UnrealizedGain.Div(costBasis).Mul(hundred)
		v.PercentChange = &pct
	}
	return v
}
