package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
)

// Pinger verifica la conexión con la base de datos (pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler endpoints de salud.
type HealthHandler struct {
	service string
	db      Pinger
}

// NewHealthHandler db puede ser nil (driver memory).
func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Health godoc
// @Summary  Estado del servicio
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

// DB godoc
// @Summary  Estado de la base de datos
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  dto.ErrorResponse
// @Router   /health/db [get]
func (h *HealthHandler) DB(c *fiber.Ctx) error {
	if h.db == nil {
		return c.JSON(fiber.Map{"status": "ok", "database": "memory"})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "DB_UNAVAILABLE", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "postgres"})
}

// Ping godoc
// @Summary  Ping
// @Tags     health
// @Produce  plain
// @Success  200  {string}  string  "pong"
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}
