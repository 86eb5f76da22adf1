package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValuateLot_NoPriceFallsBackToCost(t *testing.T) {
	v := ValuateLot(d("10"), d("15"), nil)

	assert.True(t, v.CostBasis.Equal(d("150")))
	assert.True(t, v.MarketValue.Equal(d("150")))
	assert.True(t, v.UnrealizedGain.IsZero())
	assert.True(t, v.PricedAtCost)
	require.NotNil(t, v.PercentChange)
	assert.True(t, v.PercentChange.IsZero())
}

func TestValuateLot_WithPrice(t *testing.T) {
	price := d("20")
	v := ValuateLot(d("10"), d("15"), &price)

	assert.True(t, v.CostBasis.Equal(d("150")))
	assert.True(t, v.MarketValue.Equal(d("200")))
	assert.True(t, v.UnrealizedGain.Equal(d("50")))
	assert.False(t, v.PricedAtCost)
	require.NotNil(t, v.PercentChange)
	// 50/150*100 = 33.33...
	assert.True(t, v.PercentChange.Sub(d("33.3333333333")).Abs().LessThan(d("0.000001")),
		"got %s", v.PercentChange)
}

func TestValuateLot_ZeroCostBasisHasNoPercent(t *testing.T) {
	price := d("20")
	v := ValuateLot(d("10"), d("0"), &price)

	assert.True(t, v.MarketValue.Equal(d("200")))
	assert.True(t, v.UnrealizedGain.Equal(d("200")))
	assert.Nil(t, v.PercentChange, "zero cost basis means no percent, not 0%%")
}

func TestValuateLot_LossIsNegative(t *testing.T) {
	price := d("12")
	v := ValuateLot(d("10"), d("15"), &price)

	assert.True(t, v.UnrealizedGain.Equal(d("-30")))
	require.NotNil(t, v.PercentChange)
	assert.True(t, v.PercentChange.Equal(d("-20")))
}
