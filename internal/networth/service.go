package networth

import (
	"context"
	"strings"

	"nestegg-backend/internal/currency"
	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/prices"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals is the aggregated net-worth figure, every field in the base
// currency at computation time. The bucket sums are not mutually exclusive:
// one manual asset can contribute to core, tangible, volatile and receivable
// at once.
type Totals struct {
	CurrencyCode string `json:"currency_code"`

	TotalAssets       decimal.Decimal `json:"total_assets"`
	TotalLiabilities  decimal.Decimal `json:"total_liabilities"`
	NetWorth          decimal.Decimal `json:"net_worth"`
	CoreNetWorth      decimal.Decimal `json:"core_net_worth"`
	TangibleNetWorth  decimal.Decimal `json:"tangible_net_worth"`
	VolatileAssets    decimal.Decimal `json:"volatile_assets"`
	WalletAssets      decimal.Decimal `json:"wallet_assets"`
	ManualAssets      decimal.Decimal `json:"manual_assets"`
	Receivables       decimal.Decimal `json:"receivables"`
	StockInvestments  decimal.Decimal `json:"stock_investments"`
	CryptoInvestments decimal.Decimal `json:"crypto_investments"`

	// MissingRates counts conversions that fell back to identity because no
	// exchange rate was known. Non-zero means the totals are distorted.
	MissingRates int `json:"missing_rates"`
}

// Service computes net worth from the read model. Aggregation is best-effort:
// a single bad entity is skipped with a log line, never substituted with a
// made-up value, and never aborts the whole computation.
type Service struct {
	DB     *gorm.DB
	Prices *prices.Service
}

// WithDB returns a copy of the service bound to db, typically a transaction
// handle, so the whole aggregation reads one consistent state.
func (s *Service) WithDB(db *gorm.DB) *Service {
	return &Service{DB: db, Prices: s.Prices.WithDB(db)}
}

// ComputeTotals aggregates wallets, manual assets, liabilities and holdings
// into one Totals. The converter is passed in explicitly so the rate table is
// fixed for the duration of the call.
func (s *Service) ComputeTotals(ctx context.Context, conv *currency.Converter) (*Totals, error) {
	totals := &Totals{CurrencyCode: conv.Base()}

	convert := func(amount decimal.Decimal, code string) decimal.Decimal {
		res := conv.ToBase(amount, code)
		if res.RateMissing {
			totals.MissingRates++
		}
		return res.Amount
	}

	// Wallets: only unarchived ones opted into net worth.
	var wallets []domain.Wallet
	if err := s.DB.WithContext(ctx).
		Where("include_in_net_worth = ? AND archived = ?", true, false).
		Find(&wallets).Error; err != nil {
		return nil, err
	}
	for _, w := range wallets {
		totals.WalletAssets = totals.WalletAssets.Add(convert(w.CurrentBalance, w.CurrencyCode))
	}

	// Manual assets: four overlapping buckets plus the loose receivable
	// match. "receivable" is a case-insensitive substring test on the kind,
	// inherited behavior, kept on purpose.
	var assets []domain.ManualAsset
	if err := s.DB.WithContext(ctx).Find(&assets).Error; err != nil {
		return nil, err
	}
	for _, a := range assets {
		value := convert(manualAssetValue(a), a.CurrencyCode)
		totals.ManualAssets = totals.ManualAssets.Add(value)
		if a.IncludeInCore {
			totals.CoreNetWorth = totals.CoreNetWorth.Add(value)
		}
		if a.IncludeInTangible {
			totals.TangibleNetWorth = totals.TangibleNetWorth.Add(value)
		}
		if a.Volatile {
			totals.VolatileAssets = totals.VolatileAssets.Add(value)
		}
		if strings.Contains(strings.ToLower(a.Kind), "receivable") {
			totals.Receivables = totals.Receivables.Add(value)
		}
	}

	// Liabilities.
	var liabilities []domain.ManualLiability
	if err := s.DB.WithContext(ctx).Find(&liabilities).Error; err != nil {
		return nil, err
	}
	for _, l := range liabilities {
		totals.TotalLiabilities = totals.TotalLiabilities.Add(convert(l.BalanceAmount, l.CurrencyCode))
	}

	// Holdings: each lot valued at its asset's latest price, routed into the
	// stock or crypto bucket by the "crypto" substring on the asset type.
	var lots []domain.HoldingLot
	if err := s.DB.WithContext(ctx).Find(&lots).Error; err != nil {
		return nil, err
	}
	for _, lot := range lots {
		var asset domain.InvestmentAsset
		if err := s.DB.WithContext(ctx).Where("asset_id = ?", lot.AssetID).First(&asset).Error; err != nil {
			log.Warn().Str("lot_id", lot.LotID.String()).Msg("lot references unknown asset, skipping")
			continue
		}
		snap, err := s.Prices.Latest(ctx, lot.AssetID)
		if err != nil {
			log.Warn().Err(err).Str("symbol", asset.Symbol).Msg("latest price lookup failed, skipping lot")
			continue
		}

		unitPrice := lot.CostPerUnit
		priceCurrency := lot.CurrencyCode
		if snap != nil {
			unitPrice = snap.Price
			priceCurrency = snap.CurrencyCode
		}
		value := convert(lot.Quantity.Mul(unitPrice), priceCurrency)

		if prices.AssetClass(asset.AssetType) == prices.AssetClassCrypto {
			totals.CryptoInvestments = totals.CryptoInvestments.Add(value)
		} else {
			totals.StockInvestments = totals.StockInvestments.Add(value)
		}
	}

	totals.TotalAssets = totals.WalletAssets.
		Add(totals.ManualAssets).
		Add(totals.StockInvestments).
		Add(totals.CryptoInvestments)
	totals.NetWorth = totals.TotalAssets.Sub(totals.TotalLiabilities)
	totals.CoreNetWorth = totals.CoreNetWorth.Sub(totals.TotalLiabilities)
	totals.TangibleNetWorth = totals.TangibleNetWorth.Sub(totals.TotalLiabilities)

	return totals, nil
}

// manualAssetValue is the asset's own-currency value. Investment-kind assets
// derive it from quantity and the stored market price (falling back to cost
// when no price was ever set), times the optional contract multiplier;
// everything else uses the entered value.
func manualAssetValue(a domain.ManualAsset) decimal.Decimal {
	if !strings.Contains(strings.ToLower(a.Kind), "investment") {
		return a.ValueAmount
	}
	unit := a.MarketPrice
	if unit.IsZero() {
		unit = a.CostPerUnit
	}
	value := a.Quantity.Mul(unit)
	if a.ContractMultiplier != nil && !a.ContractMultiplier.IsZero() {
		value = value.Mul(*a.ContractMultiplier)
	}
	return value
}
