package holdings

import (
	"errors"
	"time"

	"nestegg-backend/internal/pkg/response"
	"nestegg-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handlers bundles holdings endpoints.
type Handlers struct {
	Service *Service
}

type createAssetRequest struct {
	Symbol       string `json:"symbol"`
	AssetType    string `json:"asset_type"`
	CurrencyCode string `json:"currency_code"`
}

// CreateAsset POST /api/v1/holdings/assets
func (h *Handlers) CreateAsset(c *fiber.Ctx) error {
	var req createAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if !validation.IsValidSymbol(req.Symbol) {
		return response.Error(c, "Invalid symbol", 400, nil)
	}
	if !validation.IsValidCurrencyCode(req.CurrencyCode) {
		return response.Error(c, "Invalid currency code", 400, nil)
	}
	if req.AssetType == "" {
		req.AssetType = "stock"
	}

	asset, err := h.Service.CreateAsset(c.Context(), req.Symbol, req.AssetType, req.CurrencyCode)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Asset created", asset, nil)
}

type buyRequest struct {
	AssetID     string `json:"asset_id"`
	Account     string `json:"account"`
	Quantity    string `json:"quantity"`
	CostPerUnit string `json:"cost_per_unit"`
	AcquiredAt  string `json:"acquired_at"` // RFC 3339; empty means now
}

// Buy POST /api/v1/holdings/buy
func (h *Handlers) Buy(c *fiber.Ctx) error {
	var req buyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return response.Error(c, "Invalid asset ID format (must be a valid UUID)", 400, nil)
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return response.Error(c, "Quantity must be a decimal", 400, nil)
	}
	costPerUnit, err := decimal.NewFromString(req.CostPerUnit)
	if err != nil {
		return response.Error(c, "Cost per unit must be a decimal", 400, nil)
	}
	acquiredAt := time.Now()
	if req.AcquiredAt != "" {
		acquiredAt, err = time.Parse(time.RFC3339, req.AcquiredAt)
		if err != nil {
			return response.Error(c, "acquired_at must be RFC 3339", 400, nil)
		}
	}

	lot, err := h.Service.Buy(c.Context(), assetID, req.Account, quantity, costPerUnit, acquiredAt)
	if err != nil {
		switch err.Error() {
		case "Asset not found":
			return response.Error(c, err.Error(), 404, nil)
		case "quantity must be positive":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Lot created", lot, nil)
}

type sellRequest struct {
	LotID     string `json:"lot_id"`
	Quantity  string `json:"quantity"`
	SalePrice string `json:"sale_price"`
}

// Sell POST /api/v1/holdings/sell
func (h *Handlers) Sell(c *fiber.Ctx) error {
	var req sellRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return response.Error(c, "Invalid lot ID format (must be a valid UUID)", 400, nil)
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return response.Error(c, "Quantity must be a decimal", 400, nil)
	}
	salePrice, err := decimal.NewFromString(req.SalePrice)
	if err != nil {
		return response.Error(c, "Sale price must be a decimal", 400, nil)
	}

	result, err := h.Service.Sell(c.Context(), lotID, quantity, salePrice)
	if err != nil {
		if errors.Is(err, ErrInsufficientQuantity) {
			return response.Error(c, "Insufficient quantity in lot", 400, nil)
		}
		switch err.Error() {
		case "Lot not found":
			return response.Error(c, err.Error(), 404, nil)
		case "quantity must be positive":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Lot sold", result, nil)
}

// List GET /api/v1/holdings
func (h *Handlers) List(c *fiber.Ctx) error {
	lots, err := h.Service.ListValuated(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Holdings fetched", lots, nil)
}
