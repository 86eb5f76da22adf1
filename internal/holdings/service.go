package holdings

import (
	"context"
	"errors"
	"time"

	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/prices"
	"nestegg-backend/internal/valuation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInsufficientQuantity rejects a sell larger than the lot. Hard error:
// the transaction rolls back and the lot is untouched.
var ErrInsufficientQuantity = errors.New("insufficient quantity in lot")

// Service manages investment assets and holding lots. Selling is single-lot:
// the caller picks which lot to sell from, there is no FIFO matching across
// lots.
type Service struct {
	DB     *gorm.DB
	Prices *prices.Service
}

// CreateAsset registers an investment asset.
func (s *Service) CreateAsset(ctx context.Context, symbol, assetType, currencyCode string) (*domain.InvestmentAsset, error) {
	asset := domain.InvestmentAsset{
		Symbol:       symbol,
		AssetType:    assetType,
		CurrencyCode: currencyCode,
	}
	if err := s.DB.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// Buy creates a new lot against an existing asset.
func (s *Service) Buy(ctx context.Context, assetID uuid.UUID, account string, quantity, costPerUnit decimal.Decimal, acquiredAt time.Time) (*domain.HoldingLot, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("quantity must be positive")
	}

	var lot *domain.HoldingLot
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.InvestmentAsset
		if err := tx.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("Asset not found")
			}
			return err
		}
		lot = &domain.HoldingLot{
			AssetID:      assetID,
			Account:      account,
			Quantity:     quantity,
			CostPerUnit:  costPerUnit,
			CurrencyCode: asset.CurrencyCode,
			AcquiredAt:   acquiredAt,
		}
		return tx.Create(lot).Error
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// SellResult reports a completed sale. RealizedGain compares proceeds to the
// cost basis of the sold quantity.
type SellResult struct {
	LotID        uuid.UUID       `json:"lot_id"`
	Proceeds     decimal.Decimal `json:"proceeds"`
	RealizedGain decimal.Decimal `json:"realized_gain"`
	LotDeleted   bool            `json:"lot_deleted"`
	Remaining    decimal.Decimal `json:"remaining_quantity"`
}

// Sell sells quantity out of one lot at salePrice. Selling the full quantity
// deletes the lot (no zero-quantity rows persist); selling more than the lot
// holds fails with ErrInsufficientQuantity and no effect.
func (s *Service) Sell(ctx context.Context, lotID uuid.UUID, quantity, salePrice decimal.Decimal) (*SellResult, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("quantity must be positive")
	}

	var result *SellResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.HoldingLot
		if err := tx.Where("lot_id = ?", lotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("Lot not found")
			}
			return err
		}

		if quantity.GreaterThan(lot.Quantity) {
			return ErrInsufficientQuantity
		}

		proceeds := quantity.Mul(salePrice)
		costOfSold := quantity.Mul(lot.CostPerUnit)
		result = &SellResult{
			LotID:        lot.LotID,
			Proceeds:     proceeds,
			RealizedGain: proceeds.Sub(costOfSold),
		}

		if quantity.Equal(lot.Quantity) {
			result.LotDeleted = true
			result.Remaining = decimal.Zero
			return tx.Delete(&lot).Error
		}

		lot.Quantity = lot.Quantity.Sub(quantity)
		result.Remaining = lot.Quantity
		return tx.Save(&lot).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValuatedLot is a lot joined with its asset and valued at the latest price.
type ValuatedLot struct {
	Lot       domain.HoldingLot   `json:"lot"`
	Symbol    string              `json:"symbol"`
	AssetType string              `json:"asset_type"`
	Valuation valuation.Valuation `json:"valuation"`
}

// ListValuated returns every lot valued at its asset's latest price, falling
// back to cost basis when no snapshot exists.
func (s *Service) ListValuated(ctx context.Context) ([]ValuatedLot, error) {
	var lots []domain.HoldingLot
	if err := s.DB.WithContext(ctx).Order("acquired_at ASC").Find(&lots).Error; err != nil {
		return nil, err
	}

	out := make([]ValuatedLot, 0, len(lots))
	for _, lot := range lots {
		var asset domain.InvestmentAsset
		if err := s.DB.WithContext(ctx).Where("asset_id = ?", lot.AssetID).First(&asset).Error; err != nil {
			// Dangling lot: skip, never fabricate a value.
			continue
		}
		var latest *decimal.Decimal
		snap, err := s.Prices.Latest(ctx, lot.AssetID)
		if err == nil && snap != nil {
			latest = &snap.Price
		}
		out = append(out, ValuatedLot{
			Lot:       lot,
			Symbol:    asset.Symbol,
			AssetType: asset.AssetType,
			Valuation: valuation.ValuateLot(lot.Quantity, lot.CostPerUnit, latest),
		})
	}
	return out, nil
}
