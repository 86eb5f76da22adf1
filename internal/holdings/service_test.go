package holdings

import (
	"context"
	"testing"
	"time"

	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/prices"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.InvestmentAsset{}, &domain.HoldingLot{}, &domain.PriceSnapshot{},
	))
	priceService := &prices.Service{DB: db}
	return &Service{DB: db, Prices: priceService}, db
}

func createAssetAndLot(t *testing.T, s *Service, quantity, cost string) *domain.HoldingLot {
	ctx := context.Background()
	asset, err := s.CreateAsset(ctx, "VWCE", "etf", "EUR")
	require.NoError(t, err)
	lot, err := s.Buy(ctx, asset.AssetID, "broker", d(quantity), d(cost), time.Now())
	require.NoError(t, err)
	return lot
}

func TestBuy_UnknownAsset(t *testing.T) {
	s, _ := setupService(t)
	_, err := s.Buy(context.Background(), uuid.New(), "broker", d("1"), d("10"), time.Now())
	require.Error(t, err)
	assert.Equal(t, "Asset not found", err.Error())
}

func TestSell_OversellRejectedWithoutEffect(t *testing.T) {
	s, db := setupService(t)
	lot := createAssetAndLot(t, s, "5", "10")

	_, err := s.Sell(context.Background(), lot.LotID, d("6"), d("12"))
	require.ErrorIs(t, err, ErrInsufficientQuantity)

	var reloaded domain.HoldingLot
	require.NoError(t, db.Where("lot_id = ?", lot.LotID).First(&reloaded).Error)
	assert.True(t, reloaded.Quantity.Equal(d("5")), "oversell must leave the lot untouched")
}

func TestSell_FullSellDeletesLot(t *testing.T) {
	s, db := setupService(t)
	lot := createAssetAndLot(t, s, "5", "10")

	result, err := s.Sell(context.Background(), lot.LotID, d("5"), d("12"))
	require.NoError(t, err)
	assert.True(t, result.LotDeleted)
	assert.True(t, result.Proceeds.Equal(d("60")))
	assert.True(t, result.RealizedGain.Equal(d("10")))

	var count int64
	require.NoError(t, db.Model(&domain.HoldingLot{}).Where("lot_id = ?", lot.LotID).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no zero-quantity lot may persist")
}

func TestSell_PartialSellDecrements(t *testing.T) {
	s, _ := setupService(t)
	lot := createAssetAndLot(t, s, "10", "15")

	result, err := s.Sell(context.Background(), lot.LotID, d("4"), d("20"))
	require.NoError(t, err)
	assert.False(t, result.LotDeleted)
	assert.True(t, result.Remaining.Equal(d("6")))
	assert.True(t, result.Proceeds.Equal(d("80")))
	assert.True(t, result.RealizedGain.Equal(d("20")))
}

func TestListValuated_UsesLatestPriceAndFallsBack(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	priced, err := s.CreateAsset(ctx, "BTC-USD", "crypto", "USD")
	require.NoError(t, err)
	_, err = s.Buy(ctx, priced.AssetID, "exchange", d("2"), d("100"), time.Now())
	require.NoError(t, err)
	_, err = s.Prices.Record(ctx, priced.AssetID, prices.Quote{
		Symbol: "BTC-USD", Price: d("150"), CurrencyCode: "USD", Provider: "test",
	}, time.Now())
	require.NoError(t, err)

	unpriced, err := s.CreateAsset(ctx, "VWCE", "etf", "EUR")
	require.NoError(t, err)
	_, err = s.Buy(ctx, unpriced.AssetID, "broker", d("10"), d("15"), time.Now())
	require.NoError(t, err)

	lots, err := s.ListValuated(ctx)
	require.NoError(t, err)
	require.Len(t, lots, 2)

	bySymbol := map[string]ValuatedLot{}
	for _, v := range lots {
		bySymbol[v.Symbol] = v
	}

	assert.True(t, bySymbol["BTC-USD"].Valuation.MarketValue.Equal(d("300")))
	assert.False(t, bySymbol["BTC-USD"].Valuation.PricedAtCost)
	assert.True(t, bySymbol["VWCE"].Valuation.MarketValue.Equal(d("150")))
	assert.True(t, bySymbol["VWCE"].Valuation.PricedAtCost)
}
