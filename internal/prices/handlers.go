package prices

import (
	"time"

	"nestegg-backend/internal/pkg/response"
	"nestegg-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handlers bundles price endpoints.
type Handlers struct {
	Service *Service
}

type recordRequest struct {
	AssetID      string `json:"asset_id"`
	Price        string `json:"price"`
	CurrencyCode string `json:"currency_code"`
	Provider     string `json:"provider"`
}

// RecordPrice POST /api/v1/prices/record
func (h *Handlers) RecordPrice(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return response.Error(c, "Invalid asset ID format (must be a valid UUID)", 400, nil)
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return response.Error(c, "Price must be a non-negative decimal", 400, nil)
	}
	if !validation.IsValidCurrencyCode(req.CurrencyCode) {
		return response.Error(c, "Invalid currency code", 400, nil)
	}
	if req.Provider == "" {
		req.Provider = "manual"
	}

	snap, err := h.Service.Record(c.Context(), assetID, Quote{
		Price:        price,
		CurrencyCode: req.CurrencyCode,
		Provider:     req.Provider,
	}, time.Now())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Price recorded", snap, nil)
}

// LatestPrice GET /api/v1/prices/:asset_id/latest
func (h *Handlers) LatestPrice(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid asset ID format (must be a valid UUID)", 400, nil)
	}
	snap, err := h.Service.Latest(c.Context(), assetID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if snap == nil {
		return response.Error(c, "No price available", 404, nil)
	}
	return response.Success(c, "Latest price fetched", snap, nil)
}

// Refresh POST /api/v1/prices/refresh
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	report, err := h.Service.RefreshAll(c.Context(), time.Now())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Refresh cycle completed", report, nil)
}
