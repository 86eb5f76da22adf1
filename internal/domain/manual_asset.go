package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Manual asset kinds. Kind is stored as free text and matched loosely
// (substring, case-insensitive) during aggregation, so these are the
// conventional values, not an enum the database enforces.
const (
	AssetKindTangible   = "tangible"
	AssetKindReceivable = "receivable"
	AssetKindInvestment = "investment"
)

// ManualAsset is a hand-entered asset. A single asset can land in several
// aggregation buckets at once (core, tangible, volatile, receivable); the
// include flags are independent, not a partition.
type ManualAsset struct {
	AssetID      uuid.UUID       `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Name         string          `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Kind         string          `gorm:"column:kind;type:varchar(40);not null;default:tangible" json:"kind"`
	ValueAmount  decimal.Decimal `gorm:"column:value_amount;type:decimal(28,10);not null;default:0" json:"value_amount"`
	CurrencyCode string          `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`

	IncludeInCore     bool `gorm:"column:include_in_core;not null;default:false" json:"include_in_core"`
	IncludeInTangible bool `gorm:"column:include_in_tangible;not null;default:false" json:"include_in_tangible"`
	Volatile          bool `gorm:"column:volatile;not null;default:false" json:"volatile"`

	// Investment-kind extras. Zero/nil for other kinds.
	Quantity             decimal.Decimal  `gorm:"column:quantity;type:decimal(28,10);not null;default:0" json:"quantity"`
	CostPerUnit          decimal.Decimal  `gorm:"column:cost_per_unit;type:decimal(28,10);not null;default:0" json:"cost_per_unit"`
	MarketPrice          decimal.Decimal  `gorm:"column:market_price;type:decimal(28,10);not null;default:0" json:"market_price"`
	MarketPriceUpdatedAt *time.Time       `gorm:"column:market_price_updated_at" json:"market_price_updated_at"`
	ContractMultiplier   *decimal.Decimal `gorm:"column:contract_multiplier;type:decimal(28,10)" json:"contract_multiplier"`
	FundingWalletID      *uuid.UUID       `gorm:"column:funding_wallet_id;type:uuid" json:"funding_wallet_id"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ManualAsset) TableName() string {
	return "manual_assets"
}

func (a *ManualAsset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	return nil
}

// ManualLiability is a hand-entered debt (loan, credit card, mortgage).
type ManualLiability struct {
	LiabilityID   uuid.UUID       `gorm:"column:liability_id;type:uuid;primaryKey" json:"liability_id"`
	Name          string          `gorm:"column:name;type:varchar(120);not null" json:"name"`
	BalanceAmount decimal.Decimal `gorm:"column:balance_amount;type:decimal(28,10);not null;default:0" json:"balance_amount"`
	CurrencyCode  string          `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (ManualLiability) TableName() string {
	return "manual_liabilities"
}

func (l *ManualLiability) BeforeCreate(tx *gorm.DB) error {
	if l.LiabilityID == uuid.Nil {
		l.LiabilityID = uuid.New()
	}
	return nil
}
