package handlers

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/service"
)

type HealthHandler struct {
	cfg    config.Config
	db     *sql.DB
	cohere *service.CohereClient
}

func NewHealthHandler(cfg config.Config, db *sql.DB, cohere *service.CohereClient) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db, cohere: cohere}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}

func (h *HealthHandler) DatabaseHealth(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"detail": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}

// CohereHealth issues a minimal generation call. An unreachable model is a
// warning, not an error: caption generation degrades to templates instead of
// failing.
func (h *HealthHandler) CohereHealth(c *fiber.Ctx) error {
	if err := h.cohere.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "warning",
			"detail": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}

func (h *HealthHandler) UploadsHealth(c *fiber.Ctx) error {
	status := "ok"
	if _, err := os.Stat(h.cfg.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"detail": err.Error(),
			})
		}
		// Directory had gone missing since startup; recreated.
		status = "warning"
	}

	probe := filepath.Join(h.cfg.UploadDir, ".healthcheck")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"detail": err.Error(),
		})
	}
	os.Remove(probe)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": status,
	})
}
