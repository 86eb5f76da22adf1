package periodmark

import (
	"context"
	"errors"
	"time"

	"nestegg-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists once-per-period marks. TryMark is the single primitive both
// the snapshot scheduler and the budget alert engine build on: an insert that
// either wins (first caller for this scope/period/tag) or loses silently.
type Store struct {
	DB *gorm.DB
}

// MonthPeriod formats t's calendar month as the canonical period key.
func MonthPeriod(t time.Time) string {
	return t.Format("2006-01")
}

// TryMark attempts to record (scope, period, tag). Returns true when this
// caller inserted the mark, false when it already existed. The decision is
// made by the database's unique index, so two concurrent callers can never
// both see true.
func (s *Store) TryMark(ctx context.Context, scope, period, tag string) (bool, error) {
	mark := domain.PeriodMark{Scope: scope, Period: period, Tag: tag}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "period"}, {Name: "tag"}},
			DoNothing: true,
		}).
		Create(&mark)
	if res.Error != nil {
		// Some drivers surface the conflict instead of swallowing it.
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Marked reports whether (scope, period, tag) was already recorded.
func (s *Store) Marked(ctx context.Context, scope, period, tag string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&domain.PeriodMark{}).
		Where("scope = ? AND period = ? AND tag = ?", scope, period, tag).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
