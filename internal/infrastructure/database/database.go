package database

import (
	"nestegg-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB. A DSN targets Postgres (production); an empty DSN
// falls back to the pure-Go SQLite driver at sqlitePath (":memory:" works for
// tests). PreferSimpleProtocol disables prepared statement caching to avoid
// 42P05 ("prepared statement already exists") behind connection poolers.
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey on both drivers; the snapshot and period-mark writers
// rely on that.
func Open(dsn, sqlitePath string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if dsn == "" {
		return gorm.Open(sqlite.Open(sqlitePath), cfg)
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

// AutoMigrate runs migrations for all engine models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Wallet{},
		&domain.ManualAsset{},
		&domain.ManualLiability{},
		&domain.InvestmentAsset{},
		&domain.PriceSnapshot{},
		&domain.HoldingLot{},
		&domain.NetWorthSnapshot{},
		&domain.MonthlyBudget{},
		&domain.BudgetAlert{},
		&domain.PeriodMark{},
	)
}
