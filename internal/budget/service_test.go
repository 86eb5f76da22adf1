package budget

import (
	"context"
	"sync"
	"testing"

	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/notify"
	"nestegg-backend/internal/periodmark"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type captureSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (c *captureSink) Notify(event notify.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func setupService(t *testing.T) (*Service, *captureSink, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.MonthlyBudget{}, &domain.BudgetAlert{}, &domain.PeriodMark{},
	))
	sink := &captureSink{}
	return &Service{DB: db, Marks: &periodmark.Store{DB: db}, Sink: sink}, sink, db
}

func TestCreateBudget_DuplicatePeriodRejected(t *testing.T) {
	s, _, _ := setupService(t)
	ctx := context.Background()

	_, err := s.CreateBudget(ctx, "groceries", 8, 2026, d("100"), "EUR")
	require.NoError(t, err)

	_, err = s.CreateBudget(ctx, "groceries", 8, 2026, d("200"), "EUR")
	require.Error(t, err)
	assert.Equal(t, "Budget already exists for this category and period", err.Error())
}

func TestEvaluateBudget_SequentialCrossings(t *testing.T) {
	s, sink, _ := setupService(t)
	ctx := context.Background()

	b, err := s.CreateBudget(ctx, "groceries", 8, 2026, d("100"), "EUR")
	require.NoError(t, err)

	alerts, err := s.EvaluateBudget(ctx, b.BudgetID, d("60"))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 50, alerts[0].Threshold)

	alerts, err = s.EvaluateBudget(ctx, b.BudgetID, d("85"))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 80, alerts[0].Threshold)

	alerts, err = s.EvaluateBudget(ctx, b.BudgetID, d("120"))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 100, alerts[0].Threshold)

	// Three alerts total, one notification each, never a repeat.
	all, err := s.ListAlerts(ctx, b.BudgetID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Len(t, sink.events, 3)

	alerts, err = s.EvaluateBudget(ctx, b.BudgetID, d("300"))
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestEvaluateBudget_SingleLargeExpenseFiresAll(t *testing.T) {
	s, _, db := setupService(t)
	ctx := context.Background()

	b, err := s.CreateBudget(ctx, "travel", 8, 2026, d("100"), "EUR")
	require.NoError(t, err)

	alerts, err := s.EvaluateBudget(ctx, b.BudgetID, d("150"))
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, 50, alerts[0].Threshold)
	assert.Equal(t, 80, alerts[1].Threshold)
	assert.Equal(t, 100, alerts[2].Threshold)

	var reloaded domain.MonthlyBudget
	require.NoError(t, db.Where("budget_id = ?", b.BudgetID).First(&reloaded).Error)
	assert.True(t, reloaded.AlertSent50)
	assert.True(t, reloaded.AlertSent80)
	assert.True(t, reloaded.AlertSent100)
}

func TestEvaluateBudget_FlagsRecordedWhenNotificationsDisabled(t *testing.T) {
	s, _, db := setupService(t)
	// Engine behind a disabled gate: flags still persist.
	s.Sink = notify.Gated{Enabled: false, Sink: notify.LogSink{}}
	ctx := context.Background()

	b, err := s.CreateBudget(ctx, "dining", 8, 2026, d("100"), "EUR")
	require.NoError(t, err)

	alerts, err := s.EvaluateBudget(ctx, b.BudgetID, d("60"))
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	var reloaded domain.MonthlyBudget
	require.NoError(t, db.Where("budget_id = ?", b.BudgetID).First(&reloaded).Error)
	assert.True(t, reloaded.AlertSent50, "sent-state tracks crossing observed, not user notified")
}

func TestEvaluateBudget_PeriodMarkBackstop(t *testing.T) {
	s, _, _ := setupService(t)
	ctx := context.Background()

	b, err := s.CreateBudget(ctx, "misc", 8, 2026, d("100"), "EUR")
	require.NoError(t, err)

	// A concurrent evaluation already marked 50 without the flag committing.
	_, err = s.Marks.TryMark(ctx, "budget:"+b.BudgetID.String(), "2026-08", "50")
	require.NoError(t, err)

	alerts, err := s.EvaluateBudget(ctx, b.BudgetID, d("60"))
	require.NoError(t, err)
	assert.Empty(t, alerts, "losing the mark race skips the alert")

	all, err := s.ListAlerts(ctx, b.BudgetID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEvaluateBudget_UnknownBudget(t *testing.T) {
	s, _, _ := setupService(t)
	_, err := s.EvaluateBudget(context.Background(), uuid.New(), d("10"))
	require.Error(t, err)
}
