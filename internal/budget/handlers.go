package budget

import (
	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/pkg/response"
	"nestegg-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handlers bundles budget endpoints.
type Handlers struct {
	Service *Service
}

type createBudgetRequest struct {
	Category     string `json:"category"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	LimitAmount  string `json:"limit_amount"`
	CurrencyCode string `json:"currency_code"`
}

// CreateBudget POST /api/v1/budgets
func (h *Handlers) CreateBudget(c *fiber.Ctx) error {
	var req createBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if req.Category == "" {
		return response.Error(c, "Category is required", 400, nil)
	}
	if !validation.IsValidCurrencyCode(req.CurrencyCode) {
		return response.Error(c, "Invalid currency code", 400, nil)
	}
	limit, err := decimal.NewFromString(req.LimitAmount)
	if err != nil || limit.IsNegative() {
		return response.Error(c, "Limit must be a non-negative decimal", 400, nil)
	}

	b, err := h.Service.CreateBudget(c.Context(), req.Category, req.Month, req.Year, limit, req.CurrencyCode)
	if err != nil {
		switch err.Error() {
		case "month must be 1-12":
			return response.Error(c, err.Error(), 400, nil)
		case "Budget already exists for this category and period":
			return response.Error(c, err.Error(), 409, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Budget created", b, nil)
}

type evaluateRequest struct {
	Spent string `json:"spent"`
}

// Evaluate POST /api/v1/budgets/:id/evaluate
func (h *Handlers) Evaluate(c *fiber.Ctx) error {
	budgetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid budget ID format (must be a valid UUID)", 400, nil)
	}
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	spent, err := decimal.NewFromString(req.Spent)
	if err != nil {
		return response.Error(c, "Spent must be a decimal", 400, nil)
	}

	alerts, err := h.Service.EvaluateBudget(c.Context(), budgetID, spent)
	if err != nil {
		if err.Error() == "Budget not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if alerts == nil {
		alerts = []domain.BudgetAlert{}
	}
	return response.Success(c, "Budget evaluated", alerts, nil)
}

// ListAlerts GET /api/v1/budgets/:id/alerts
func (h *Handlers) ListAlerts(c *fiber.Ctx) error {
	budgetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid budget ID format (must be a valid UUID)", 400, nil)
	}
	alerts, err := h.Service.ListAlerts(c.Context(), budgetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Alerts fetched", alerts, nil)
}
