package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvestmentAsset is a tradeable instrument identified by symbol. AssetType
// is free text ("stock", "etf", "crypto", ...); aggregation routes anything
// containing "crypto" into the crypto bucket and everything else, ETFs
// included, into the stock bucket.
type InvestmentAsset struct {
	AssetID      uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Symbol       string    `gorm:"column:symbol;type:varchar(40);not null;index" json:"symbol"`
	AssetType    string    `gorm:"column:asset_type;type:varchar(40);not null;default:stock" json:"asset_type"`
	CurrencyCode string    `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (InvestmentAsset) TableName() string {
	return "investment_assets"
}

func (a *InvestmentAsset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	return nil
}

// PriceSnapshot is one observed price for an asset. Rows are append-only:
// nothing in the codebase updates or deletes them, so full price history is
// preserved. Multiple providers may record prices for the same asset; the
// store never merges or deduplicates across providers.
type PriceSnapshot struct {
	SnapshotID   uuid.UUID       `gorm:"column:snapshot_id;type:uuid;primaryKey" json:"snapshot_id"`
	AssetID      uuid.UUID       `gorm:"column:asset_id;type:uuid;not null;index" json:"asset_id"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(28,10);not null" json:"price"`
	CurrencyCode string          `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`
	Provider     string          `gorm:"column:provider;type:varchar(60);not null" json:"provider"`
	Payload      datatypes.JSON  `gorm:"column:payload" json:"payload"`
	FetchedAt    time.Time       `gorm:"column:fetched_at;not null;index" json:"fetched_at"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (PriceSnapshot) TableName() string {
	return "price_snapshots"
}

func (p *PriceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.SnapshotID == uuid.Nil {
		p.SnapshotID = uuid.New()
	}
	return nil
}

// HoldingLot is one purchase of an investment asset. Quantity never goes
// negative: a sell either decrements it or deletes the row when exhausted.
// The asset reference is shared, not owned; deleting a lot leaves the asset
// and its price history untouched.
type HoldingLot struct {
	LotID        uuid.UUID       `gorm:"column:lot_id;type:uuid;primaryKey" json:"lot_id"`
	AssetID      uuid.UUID       `gorm:"column:asset_id;type:uuid;not null;index" json:"asset_id"`
	Account      string          `gorm:"column:account;type:varchar(120);not null" json:"account"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:decimal(28,10);not null" json:"quantity"`
	CostPerUnit  decimal.Decimal `gorm:"column:cost_per_unit;type:decimal(28,10);not null" json:"cost_per_unit"`
	CurrencyCode string          `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`
	AcquiredAt   time.Time       `gorm:"column:acquired_at;not null" json:"acquired_at"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (HoldingLot) TableName() string {
	return "holding_lots"
}

func (l *HoldingLot) BeforeCreate(tx *gorm.DB) error {
	if l.LotID == uuid.Nil {
		l.LotID = uuid.New()
	}
	return nil
}
