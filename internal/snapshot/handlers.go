package snapshot

import (
	"time"

	"nestegg-backend/internal/currency"
	"nestegg-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles snapshot endpoints.
type Handlers struct {
	Service   *Service
	Converter *currency.Converter
}

// Ensure POST /api/v1/networth/snapshots/ensure
func (h *Handlers) Ensure(c *fiber.Ctx) error {
	result, err := h.Service.EnsureSnapshot(c.Context(), h.Converter, time.Now())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	if result.Created {
		return response.SuccessCreated(c, "Snapshot captured", result, nil)
	}
	return response.Success(c, "Snapshot already captured for this month", result, nil)
}

// List GET /api/v1/networth/snapshots
func (h *Handlers) List(c *fiber.Ctx) error {
	snaps, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Snapshots fetched", snaps, nil)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes PATCH /api/v1/networth/snapshots/:id/notes
func (h *Handlers) UpdateNotes(c *fiber.Ctx) error {
	snapshotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid snapshot ID format (must be a valid UUID)", 400, nil)
	}
	var req notesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	snap, err := h.Service.UpdateNotes(c.Context(), snapshotID, req.Notes)
	if err != nil {
		if err.Error() == "Snapshot not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notes updated", snap, nil)
}
