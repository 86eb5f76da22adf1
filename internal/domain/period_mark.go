package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PeriodMark is a persisted once-per-period event tag. Both idempotent
// processes in the engine sit on it: the snapshot scheduler marks
// (scope="networth-snapshot", period="YYYY-MM", tag="auto") and the budget
// engine marks (scope="budget:<id>", period="YYYY-MM", tag="50"|"80"|"100").
// The unique index is the actual guarantee; the in-code due-check alone
// would be a TOCTOU hazard.
type PeriodMark struct {
	MarkID    uuid.UUID `gorm:"column:mark_id;type:uuid;primaryKey" json:"mark_id"`
	Scope     string    `gorm:"column:scope;type:varchar(120);not null;uniqueIndex:idx_period_mark" json:"scope"`
	Period    string    `gorm:"column:period;type:varchar(20);not null;uniqueIndex:idx_period_mark" json:"period"`
	Tag       string    `gorm:"column:tag;type:varchar(40);not null;uniqueIndex:idx_period_mark" json:"tag"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PeriodMark) TableName() string {
	return "period_marks"
}

func (m *PeriodMark) BeforeCreate(tx *gorm.DB) error {
	if m.MarkID == uuid.Nil {
		m.MarkID = uuid.New()
	}
	return nil
}
