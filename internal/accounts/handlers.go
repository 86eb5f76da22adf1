package accounts

import (
	"nestegg-backend/internal/domain"
	"nestegg-backend/internal/pkg/response"
	"nestegg-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handlers bundles read-model maintenance endpoints.
type Handlers struct {
	Service *Service
}

type createWalletRequest struct {
	Name              string `json:"name"`
	CurrencyCode      string `json:"currency_code"`
	CurrentBalance    string `json:"current_balance"`
	IncludeInNetWorth *bool  `json:"include_in_net_worth"`
}

// CreateWallet POST /api/v1/wallets
func (h *Handlers) CreateWallet(c *fiber.Ctx) error {
	var req createWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if !validation.IsValidName(req.Name) {
		return response.Error(c, "Invalid wallet name", 400, nil)
	}
	if !validation.IsValidCurrencyCode(req.CurrencyCode) {
		return response.Error(c, "Invalid currency code", 400, nil)
	}
	balance := decimal.Zero
	if req.CurrentBalance != "" {
		var err error
		balance, err = decimal.NewFromString(req.CurrentBalance)
		if err != nil {
			return response.Error(c, "Balance must be a decimal", 400, nil)
		}
	}
	include := true
	if req.IncludeInNetWorth != nil {
		include = *req.IncludeInNetWorth
	}

	wallet := domain.Wallet{
		Name:              req.Name,
		CurrencyCode:      req.CurrencyCode,
		CurrentBalance:    balance,
		IncludeInNetWorth: include,
	}
	if err := h.Service.CreateWallet(c.Context(), &wallet); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Wallet created", wallet, nil)
}

// ListWallets GET /api/v1/wallets
func (h *Handlers) ListWallets(c *fiber.Ctx) error {
	wallets, err := h.Service.ListWallets(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Wallets fetched", wallets, nil)
}

type createAssetRequest struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	ValueAmount       string `json:"value_amount"`
	CurrencyCode      string `json:"currency_code"`
	IncludeInCore     bool   `json:"include_in_core"`
	IncludeInTangible bool   `json:"include_in_tangible"`
	Volatile          bool   `json:"volatile"`
	Quantity          string `json:"quantity"`
	CostPerUnit       string `json:"cost_per_unit"`
	MarketPrice       string `json:"market_price"`
}

// CreateAsset POST /api/v1/assets
func (h *Handlers) CreateAsset(c *fiber.Ctx) error {
	var req createAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if !validation.IsValidName(req.Name) {
		return response.Error(c, "Invalid asset name", 400, nil)
	}
	if !validation.IsValidCurrencyCode(req.CurrencyCode) {
		return response.Error(c, "Invalid currency code", 400, nil)
	}
	if req.Kind == "" {
		req.Kind = domain.AssetKindTangible
	}

	asset := domain.ManualAsset{
		Name:              req.Name,
		Kind:              req.Kind,
		CurrencyCode:      req.CurrencyCode,
		IncludeInCore:     req.IncludeInCore,
		IncludeInTangible: req.IncludeInTangible,
		Volatile:          req.Volatile,
	}
	var err error
	if asset.ValueAmount, err = parseDecimalOrZero(req.ValueAmount); err != nil {
		return response.Error(c, "Value must be a decimal", 400, nil)
	}
	if asset.Quantity, err = parseDecimalOrZero(req.Quantity); err != nil {
		return response.Error(c, "Quantity must be a decimal", 400, nil)
	}
	if asset.CostPerUnit, err = parseDecimalOrZero(req.CostPerUnit); err != nil {
		return response.Error(c, "Cost per unit must be a decimal", 400, nil)
	}
	if asset.MarketPrice, err = parseDecimalOrZero(req.MarketPrice); err != nil {
		return response.Error(c, "Market price must be a decimal", 400, nil)
	}

	if err := h.Service.CreateAsset(c.Context(), &asset); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Asset created", asset, nil)
}

// ListAssets GET /api/v1/assets
func (h *Handlers) ListAssets(c *fiber.Ctx) error {
	assets, err := h.Service.ListAssets(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Assets fetched", assets, nil)
}

type createLiabilityRequest struct {
	Name          string `json:"name"`
	BalanceAmount string `json:"balance_amount"`
	CurrencyCode  string `json:"currency_code"`
}

// CreateLiability POST /api/v1/liabilities
func (h *Handlers) CreateLiability(c *fiber.Ctx) error {
	var req createLiabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if !validation.IsValidName(req.Name) {
		return response.Error(c, "Invalid liability name", 400, nil)
	}
	if !validation.IsValidCurrencyCode(req.CurrencyCode) {
		return response.Error(c, "Invalid currency code", 400, nil)
	}
	balance, err := parseDecimalOrZero(req.BalanceAmount)
	if err != nil {
		return response.Error(c, "Balance must be a decimal", 400, nil)
	}

	liability := domain.ManualLiability{
		Name:          req.Name,
		BalanceAmount: balance,
		CurrencyCode:  req.CurrencyCode,
	}
	if err := h.Service.CreateLiability(c.Context(), &liability); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Liability created", liability, nil)
}

// ListLiabilities GET /api/v1/liabilities
func (h *Handlers) ListLiabilities(c *fiber.Ctx) error {
	liabilities, err := h.Service.ListLiabilities(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Liabilities fetched", liabilities, nil)
}

func parseDecimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
