package health

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers bundles health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  *gorm.DB
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	var pinger DBPinger
	if h.DB != nil {
		pinger = gormPinger{db: h.DB}
	}
	result := CollectHealth(c.Context(), h.Rdb, pinger)
	return c.JSON(result)
}

// Reset GET /health/reset
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if err := Reset(c.Context(), h.Rdb); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error"})
	}
	return c.JSON(fiber.Map{"status": "reset"})
}
