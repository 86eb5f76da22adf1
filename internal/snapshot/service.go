package snapshot

import (
	"context"
	"errors"
	"time"

	"nestegg-backend/internal/currency"
	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/networth"
	"nestegg-backend/internal/periodmark"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const markScope = "networth-snapshot"
const markTag = "auto"

// Service decides whether a net-worth snapshot is due and persists at most
// one per calendar month. The decision is not trusted on its own: the
// period-mark unique index and the snapshot table's unique period index make
// the check-then-insert race-proof, so an app-foreground trigger racing a
// background trigger cannot produce two rows for the same month.
type Service struct {
	DB       *gorm.DB
	NetWorth *networth.Service
}

// EnsureResult tells the caller whether this invocation wrote the snapshot
// or found the month already captured.
type EnsureResult struct {
	Snapshot *domain.NetWorthSnapshot `json:"snapshot"`
	Created  bool                     `json:"created"`
}

// errPeriodTaken signals the unique period index rejected our insert; the
// transaction is rolled back and the existing snapshot looked up outside it.
var errPeriodTaken = errors.New("snapshot period already captured")

// EnsureSnapshot captures this month's snapshot if it has not been captured
// yet. Losing the race (or calling again in the same month) returns the
// existing snapshot with Created=false; it is never an error.
//
// Mark, aggregation and insert run in one transaction: if anything after the
// mark fails, the mark rolls back too and a later call can still capture the
// month. A mark without its snapshot can never be committed.
func (s *Service) EnsureSnapshot(ctx context.Context, conv *currency.Converter, now time.Time) (*EnsureResult, error) {
	period := periodmark.MonthPeriod(now)
	var result *EnsureResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		marks := &periodmark.Store{DB: tx}
		won, err := marks.TryMark(ctx, markScope, period, markTag)
		if err != nil {
			return err
		}
		if !won {
			existing, err := byPeriod(ctx, tx, period)
			if err != nil {
				return err
			}
			result = &EnsureResult{Snapshot: existing, Created: false}
			return nil
		}

		totals, err := s.NetWorth.WithDB(tx).ComputeTotals(ctx, conv)
		if err != nil {
			return err
		}

		snap := domain.NetWorthSnapshot{
			Period:            period,
			TakenAt:           now,
			CurrencyCode:      totals.CurrencyCode,
			TotalAssets:       totals.TotalAssets,
			TotalLiabilities:  totals.TotalLiabilities,
			NetWorth:          totals.NetWorth,
			CoreNetWorth:      totals.CoreNetWorth,
			TangibleNetWorth:  totals.TangibleNetWorth,
			VolatileAssets:    totals.VolatileAssets,
			WalletAssets:      totals.WalletAssets,
			ManualAssets:      totals.ManualAssets,
			Receivables:       totals.Receivables,
			StockInvestments:  totals.StockInvestments,
			CryptoInvestments: totals.CryptoInvestments,
		}
		if err := tx.Create(&snap).Error; err != nil {
			// Unique period index backstop: a snapshot exists without its mark
			// (possible only if marks were wiped). Abort the transaction and
			// resolve outside it.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errPeriodTaken
			}
			return err
		}
		result = &EnsureResult{Snapshot: &snap, Created: true}
		return nil
	})
	if errors.Is(err, errPeriodTaken) {
		log.Warn().Str("period", period).Msg("snapshot insert lost the period race")
		existing, lookupErr := byPeriod(ctx, s.DB, period)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return &EnsureResult{Snapshot: existing, Created: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns snapshots newest first.
func (s *Service) List(ctx context.Context) ([]domain.NetWorthSnapshot, error) {
	var snaps []domain.NetWorthSnapshot
	err := s.DB.WithContext(ctx).Order("taken_at DESC").Find(&snaps).Error
	return snaps, err
}

// UpdateNotes sets the free-text notes, the only mutable field on a
// snapshot.
func (s *Service) UpdateNotes(ctx context.Context, snapshotID uuid.UUID, notes string) (*domain.NetWorthSnapshot, error) {
	var snap domain.NetWorthSnapshot
	if err := s.DB.WithContext(ctx).Where("snapshot_id = ?", snapshotID).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Snapshot not found")
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&snap).Update("notes", notes).Error; err != nil {
		return nil, err
	}
	snap.Notes = notes
	return &snap, nil
}

func byPeriod(ctx context.Context, db *gorm.DB, period string) (*domain.NetWorthSnapshot, error) {
	var snap domain.NetWorthSnapshot
	err := db.WithContext(ctx).Where("period = ?", period).First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}
