package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MonthlyBudget is one spending limit for a (category, month, year). The
// alert flags are monotonic within the row: once set they are never cleared;
// the next month gets a fresh row with all flags false.
type MonthlyBudget struct {
	BudgetID     uuid.UUID       `gorm:"column:budget_id;type:uuid;primaryKey" json:"budget_id"`
	Category     string          `gorm:"column:category;type:varchar(80);not null;uniqueIndex:idx_budget_period" json:"category"`
	Month        int             `gorm:"column:month;not null;uniqueIndex:idx_budget_period" json:"month"`
	Year         int             `gorm:"column:year;not null;uniqueIndex:idx_budget_period" json:"year"`
	LimitAmount  decimal.Decimal `gorm:"column:limit_amount;type:decimal(28,10);not null" json:"limit_amount"`
	CurrencyCode string          `gorm:"column:currency_code;type:varchar(10);not null" json:"currency_code"`

	AlertSent50  bool `gorm:"column:alert_sent_50;not null;default:false" json:"alert_sent_50"`
	AlertSent80  bool `gorm:"column:alert_sent_80;not null;default:false" json:"alert_sent_80"`
	AlertSent100 bool `gorm:"column:alert_sent_100;not null;default:false" json:"alert_sent_100"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (MonthlyBudget) TableName() string {
	return "monthly_budgets"
}

func (b *MonthlyBudget) BeforeCreate(tx *gorm.DB) error {
	if b.BudgetID == uuid.Nil {
		b.BudgetID = uuid.New()
	}
	return nil
}

// BudgetAlert records one threshold crossing. Exactly one row exists per
// (budget, threshold) because the engine only fires on the false→true
// transition of the matching sent flag.
type BudgetAlert struct {
	AlertID     uuid.UUID       `gorm:"column:alert_id;type:uuid;primaryKey" json:"alert_id"`
	BudgetID    uuid.UUID       `gorm:"column:budget_id;type:uuid;not null;index" json:"budget_id"`
	Threshold   int             `gorm:"column:threshold;not null" json:"threshold"`
	SpentAmount decimal.Decimal `gorm:"column:spent_amount;type:decimal(28,10);not null" json:"spent_amount"`
	Context     datatypes.JSON  `gorm:"column:context" json:"context"`
	FiredAt     time.Time       `gorm:"column:fired_at;not null" json:"fired_at"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (BudgetAlert) TableName() string {
	return "budget_alerts"
}

func (a *BudgetAlert) BeforeCreate(tx *gorm.DB) error {
	if a.AlertID == uuid.Nil {
		a.AlertID = uuid.New()
	}
	return nil
}
