package networth

import (
	"nestegg-backend/internal/currency"
	"nestegg-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles net worth endpoints.
type Handlers struct {
	Service   *Service
	Converter *currency.Converter
}

// GetTotals GET /api/v1/networth
func (h *Handlers) GetTotals(c *fiber.Ctx) error {
	totals, err := h.Service.ComputeTotals(c.Context(), h.Converter)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Net worth computed", totals, nil)
}
