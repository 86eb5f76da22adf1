package networth

import (
	"context"
	"testing"
	"time"

	"nestegg-backend/internal/currency"
	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/prices"

	"github.com/glebarez/sqlite"
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
		&domain.Wallet{}, &domain.ManualAsset{}, &domain.ManualLiability{},
		&domain.InvestmentAsset{}, &domain.PriceSnapshot{}, &domain.HoldingLot{},
	))
	return &Service{DB: db, Prices: &prices.Service{DB: db}}, db
}

func eurConverter() *currency.Converter {
	return currency.New("EUR", map[string]decimal.Decimal{
		"USD": d("0.9"),
	})
}

func TestComputeTotals_Empty(t *testing.T) {
	s, _ := setupService(t)
	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	assert.Equal(t, "EUR", totals.CurrencyCode)
	assert.True(t, totals.NetWorth.IsZero())
}

func TestComputeTotals_WalletFilterAndConversion(t *testing.T) {
	s, db := setupService(t)
	require.NoError(t, db.Create(&domain.Wallet{Name: "Main", CurrencyCode: "EUR", CurrentBalance: d("1000"), IncludeInNetWorth: true}).Error)
	require.NoError(t, db.Create(&domain.Wallet{Name: "US", CurrencyCode: "USD", CurrentBalance: d("100"), IncludeInNetWorth: true}).Error)
	require.NoError(t, db.Create(&domain.Wallet{Name: "Excluded", CurrencyCode: "EUR", CurrentBalance: d("500"), IncludeInNetWorth: false}).Error)
	require.NoError(t, db.Create(&domain.Wallet{Name: "Archived", CurrencyCode: "EUR", CurrentBalance: d("500"), IncludeInNetWorth: true, Archived: true}).Error)

	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	// 1000 + 100*0.9
	assert.True(t, totals.WalletAssets.Equal(d("1090")), "got %s", totals.WalletAssets)
	assert.True(t, totals.NetWorth.Equal(d("1090")))
}

func TestComputeTotals_BucketsAreNotExclusive(t *testing.T) {
	s, db := setupService(t)
	require.NoError(t, db.Create(&domain.ManualAsset{
		Name: "House fund", Kind: domain.AssetKindTangible, CurrencyCode: "EUR",
		ValueAmount: d("500"), IncludeInCore: true, IncludeInTangible: true,
	}).Error)

	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	// 500 contributes to both, liabilities are zero.
	assert.True(t, totals.CoreNetWorth.Equal(d("500")))
	assert.True(t, totals.TangibleNetWorth.Equal(d("500")))
	assert.True(t, totals.ManualAssets.Equal(d("500")))
}

func TestComputeTotals_ReceivableSubstringMatch(t *testing.T) {
	s, db := setupService(t)
	require.NoError(t, db.Create(&domain.ManualAsset{
		Name: "Loan to a friend", Kind: "Receivable-personal", CurrencyCode: "EUR", ValueAmount: d("200"),
	}).Error)
	require.NoError(t, db.Create(&domain.ManualAsset{
		Name: "Car", Kind: "tangible", CurrencyCode: "EUR", ValueAmount: d("9000"),
	}).Error)

	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	assert.True(t, totals.Receivables.Equal(d("200")))
	assert.True(t, totals.ManualAssets.Equal(d("9200")))
}

func TestComputeTotals_LiabilitiesSubtract(t *testing.T) {
	s, db := setupService(t)
	require.NoError(t, db.Create(&domain.Wallet{Name: "Main", CurrencyCode: "EUR", CurrentBalance: d("1000"), IncludeInNetWorth: true}).Error)
	require.NoError(t, db.Create(&domain.ManualLiability{Name: "Car loan", CurrencyCode: "EUR", BalanceAmount: d("300")}).Error)

	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	assert.True(t, totals.TotalLiabilities.Equal(d("300")))
	assert.True(t, totals.NetWorth.Equal(d("700")))
	// Core/tangible are negative: no core/tangible assets, liabilities still subtract.
	assert.True(t, totals.CoreNetWorth.Equal(d("-300")))
}

func TestComputeTotals_HoldingsRoutedByAssetType(t *testing.T) {
	s, db := setupService(t)
	ctx := context.Background()

	stock := domain.InvestmentAsset{Symbol: "VWCE", AssetType: "etf", CurrencyCode: "EUR"}
	require.NoError(t, db.Create(&stock).Error)
	crypto := domain.InvestmentAsset{Symbol: "BTC", AssetType: "crypto", CurrencyCode: "USD"}
	require.NoError(t, db.Create(&crypto).Error)

	require.NoError(t, db.Create(&domain.HoldingLot{
		AssetID: stock.AssetID, Account: "broker", Quantity: d("10"), CostPerUnit: d("100"),
		CurrencyCode: "EUR", AcquiredAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&domain.HoldingLot{
		AssetID: crypto.AssetID, Account: "exchange", Quantity: d("2"), CostPerUnit: d("50"),
		CurrencyCode: "USD", AcquiredAt: time.Now(),
	}).Error)

	_, err := s.Prices.Record(ctx, stock.AssetID, prices.Quote{Price: d("110"), CurrencyCode: "EUR", Provider: "test"}, time.Now())
	require.NoError(t, err)
	// No price for BTC: lot valued at cost, in its own currency, converted.

	totals, err := s.ComputeTotals(ctx, eurConverter())
	require.NoError(t, err)
	assert.True(t, totals.StockInvestments.Equal(d("1100")), "got %s", totals.StockInvestments)
	// 2 * 50 USD * 0.9
	assert.True(t, totals.CryptoInvestments.Equal(d("90")), "got %s", totals.CryptoInvestments)
	assert.True(t, totals.TotalAssets.Equal(d("1190")))
}

func TestComputeTotals_MissingRateIsObservable(t *testing.T) {
	s, db := setupService(t)
	require.NoError(t, db.Create(&domain.Wallet{Name: "CH", CurrencyCode: "CHF", CurrentBalance: d("100"), IncludeInNetWorth: true}).Error)

	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	// Fail-open: counted at face value, flagged.
	assert.True(t, totals.WalletAssets.Equal(d("100")))
	assert.Equal(t, 1, totals.MissingRates)
}

func TestComputeTotals_InvestmentKindManualAsset(t *testing.T) {
	s, db := setupService(t)
	mult := d("5")
	require.NoError(t, db.Create(&domain.ManualAsset{
		Name: "Gold contracts", Kind: domain.AssetKindInvestment, CurrencyCode: "EUR",
		Quantity: d("3"), CostPerUnit: d("10"), MarketPrice: d("12"), ContractMultiplier: &mult,
	}).Error)

	totals, err := s.ComputeTotals(context.Background(), eurConverter())
	require.NoError(t, err)
	// 3 * 12 * 5
	assert.True(t, totals.ManualAssets.Equal(d("180")), "got %s", totals.ManualAssets)
}
