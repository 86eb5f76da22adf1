package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NetWorthSnapshot is a dated copy of the aggregated totals. Period is the
// calendar month "YYYY-MM" the snapshot belongs to; the unique index is what
// makes the automatic cadence race-proof — two concurrent writers cannot both
// insert a row for the same month. Immutable after creation except Notes.
type NetWorthSnapshot struct {
	SnapshotID   uuid.UUID `gorm:"column:snapshot_id;type:uuid;primaryKey" json:"snapshot_id"`
	Period       string    `gorm:"column:period;type:varchar(7);not null;uniqueIndex" json:"period"`
	TakenAt      time.Time `gorm:"column:taken_at;not null" json:"taken_at"`
	CurrencyCode string    `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`

	TotalAssets       decimal.Decimal `gorm:"column:total_assets;type:decimal(28,10);not null" json:"total_assets"`
	TotalLiabilities  decimal.Decimal `gorm:"column:total_liabilities;type:decimal(28,10);not null" json:"total_liabilities"`
	NetWorth          decimal.Decimal `gorm:"column:net_worth;type:decimal(28,10);not null" json:"net_worth"`
	CoreNetWorth      decimal.Decimal `gorm:"column:core_net_worth;type:decimal(28,10);not null" json:"core_net_worth"`
	TangibleNetWorth  decimal.Decimal `gorm:"column:tangible_net_worth;type:decimal(28,10);not null" json:"tangible_net_worth"`
	VolatileAssets    decimal.Decimal `gorm:"column:volatile_assets;type:decimal(28,10);not null" json:"volatile_assets"`
	WalletAssets      decimal.Decimal `gorm:"column:wallet_assets;type:decimal(28,10);not null" json:"wallet_assets"`
	ManualAssets      decimal.Decimal `gorm:"column:manual_assets;type:decimal(28,10);not null" json:"manual_assets"`
	Receivables       decimal.Decimal `gorm:"column:receivables;type:decimal(28,10);not null" json:"receivables"`
	StockInvestments  decimal.Decimal `gorm:"column:stock_investments;type:decimal(28,10);not null" json:"stock_investments"`
	CryptoInvestments decimal.Decimal `gorm:"column:crypto_investments;type:decimal(28,10);not null" json:"crypto_investments"`

	Notes string `gorm:"column:notes;type:text" json:"notes"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (NetWorthSnapshot) TableName() string {
	return "net_worth_snapshots"
}

func (s *NetWorthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.SnapshotID == uuid.Nil {
		s.SnapshotID = uuid.New()
	}
	return nil
}
