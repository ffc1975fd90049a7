package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"evaluno/interview-api/internal/apperrors"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// HandleCheckDB handles GET /check-db
func (h *HealthHandler) HandleCheckDB(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "Failed to connect to database", err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Connected to PostgreSQL!",
	})
}
