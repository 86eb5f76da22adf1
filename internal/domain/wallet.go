package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet is a cash account in a single currency. The valuation engine only
// reads CurrentBalance; postings and investment funding mutate it elsewhere.
type Wallet struct {
	WalletID          uuid.UUID       `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	Name              string          `gorm:"column:name;type:varchar(120);not null" json:"name"`
	CurrencyCode      string          `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`
	CurrentBalance    decimal.Decimal `gorm:"column:current_balance;type:decimal(28,10);not null;default:0" json:"current_balance"`
	// No column default on purpose: gorm would skip a zero-valued bool on
	// Create and an explicitly excluded wallet would come back included. The
	// create handler owns the default.
	IncludeInNetWorth bool            `gorm:"column:include_in_net_worth;not null" json:"include_in_net_worth"`
	Archived          bool            `gorm:"column:archived;not null;default:false" json:"archived"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	return nil
}
