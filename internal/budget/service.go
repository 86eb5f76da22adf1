package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/notify"
	"nestegg-backend/internal/periodmark"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service runs budget evaluations and persists their side effects. The flag
// update, the period marks and the alert rows are written in one transaction
// with the budget row re-read inside it, so two near-simultaneous evaluations
// of the same budget cannot double-fire a threshold.
type Service struct {
	DB    *gorm.DB
	Marks *periodmark.Store
	Sink  notify.Sink
}

// CreateBudget registers a limit for a (category, month, year); the unique
// composite index rejects duplicates. Alert flags start all-false.
func (s *Service) CreateBudget(ctx context.Context, category string, month, year int, limit decimal.Decimal, currencyCode string) (*domain.MonthlyBudget, error) {
	if month < 1 || month > 12 {
		return nil, errors.New("month must be 1-12")
	}
	b := domain.MonthlyBudget{
		Category:     category,
		Month:        month,
		Year:         year,
		LimitAmount:  limit,
		CurrencyCode: currencyCode,
	}
	if err := s.DB.WithContext(ctx).Create(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("Budget already exists for this category and period")
		}
		return nil, err
	}
	return &b, nil
}

// EvaluateBudget checks spent against the budget's limit and fires an alert
// for every threshold newly crossed in this pass. Flags are recorded as sent
// even when notification delivery is globally disabled — sent-state tracks
// "crossing observed", not "user notified". Returns the alerts fired by this
// call (empty when nothing new was crossed).
func (s *Service) EvaluateBudget(ctx context.Context, budgetID uuid.UUID, spent decimal.Decimal) ([]domain.BudgetAlert, error) {
	var fired []domain.BudgetAlert
	var budget domain.MonthlyBudget

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", budgetID).First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("Budget not found")
			}
			return err
		}

		flags := SentFlags{Sent50: budget.AlertSent50, Sent80: budget.AlertSent80, Sent100: budget.AlertSent100}
		updated, crossings := Evaluate(flags, budget.LimitAmount, spent)
		if len(crossings) == 0 {
			return nil
		}

		scope := "budget:" + budget.BudgetID.String()
		period := fmt.Sprintf("%04d-%02d", budget.Year, budget.Month)
		marks := &periodmark.Store{DB: tx}

		now := time.Now()
		for _, crossing := range crossings {
			// Backstop against a racing evaluation that committed between our
			// read and this write; the loser simply skips the threshold.
			won, err := marks.TryMark(ctx, scope, period, strconv.Itoa(crossing.Threshold))
			if err != nil {
				return err
			}
			if !won {
				log.Warn().Str("budget_id", budget.BudgetID.String()).Int("threshold", crossing.Threshold).Msg("threshold already marked by concurrent evaluation")
				continue
			}

			payload, _ := json.Marshal(map[string]interface{}{
				"category": budget.Category,
				"month":    budget.Month,
				"year":     budget.Year,
				"limit":    budget.LimitAmount.String(),
				"ratio":    crossing.Ratio.String(),
			})
			alert := domain.BudgetAlert{
				BudgetID:    budget.BudgetID,
				Threshold:   crossing.Threshold,
				SpentAmount: spent,
				Context:     datatypes.JSON(payload),
				FiredAt:     now,
			}
			if err := tx.Create(&alert).Error; err != nil {
				return err
			}
			fired = append(fired, alert)
		}

		budget.AlertSent50 = updated.Sent50
		budget.AlertSent80 = updated.Sent80
		budget.AlertSent100 = updated.Sent100
		return tx.Save(&budget).Error
	})
	if err != nil {
		return nil, err
	}

	// Notification dispatch happens after commit so a sink panic or slow sink
	// never holds the transaction. Fire-and-forget.
	for _, alert := range fired {
		s.Sink.Notify(notify.Event{
			Title: fmt.Sprintf("Budget %s at %d%%", budget.Category, alert.Threshold),
			Body:  fmt.Sprintf("Spent %s of %s", spent.String(), budget.LimitAmount.String()),
			Meta: map[string]string{
				"budget_id": budget.BudgetID.String(),
				"threshold": strconv.Itoa(alert.Threshold),
			},
		})
	}

	return fired, nil
}

// ListAlerts returns fired alerts for one budget, oldest first.
func (s *Service) ListAlerts(ctx context.Context, budgetID uuid.UUID) ([]domain.BudgetAlert, error) {
	var alerts []domain.BudgetAlert
	err := s.DB.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("fired_at ASC, threshold ASC").
		Find(&alerts).Error
	return alerts, err
}
