package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mdriyaz-a/captionflow/internal/models"
	"github.com/mdriyaz-a/captionflow/internal/service"
	"github.com/mdriyaz-a/captionflow/internal/transfer"
)

type CaptionHandler struct {
	captions  service.CaptionService
	artifacts service.ArtifactService
}

func NewCaptionHandler(captions service.CaptionService, artifacts service.ArtifactService) *CaptionHandler {
	return &CaptionHandler{captions: captions, artifacts: artifacts}
}

// GenerateCaptions accepts either a multipart upload (field "image") or a
// JSON body with a text description. Caption generation itself never fails;
// only the inputs are validated.
func (h *CaptionHandler) GenerateCaptions(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err == nil {
		return h.generateFromImage(c, fileHeader)
	}

	var req transfer.CaptionTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide an image file or a text description",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Text description cannot be empty",
		})
	}

	batch := h.captions.GenerateCaptions(c.Context(), req.Text)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"description": req.Text,
		"captions":    batch,
	})
}

func (h *CaptionHandler) generateFromImage(c *fiber.Ctx, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read uploaded file",
		})
	}

	userID := GetUserID(c)
	path, err := h.artifacts.SaveUpload(c.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, service.ErrFileTypeNotAllowed) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save uploaded file",
		})
	}

	description := h.captions.DescribeImage(c.Context(), path)
	batch := h.captions.GenerateCaptions(c.Context(), description)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"description": description,
		"captions":    batch,
		"image_path":  path,
	})
}

type captionStyle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var captionStyles = []captionStyle{
	{models.StyleCasual, "Casual", "Friendly and relaxed, with emojis"},
	{models.StyleFormal, "Formal", "Polished and professional"},
	{models.StylePoetic, "Poetic", "Reflective, with elegant language"},
	{models.StyleHumorous, "Humorous", "Witty, with wordplay"},
	{models.StyleInspirational, "Inspirational", "Uplifting and motivational"},
}

func (h *CaptionHandler) ListStyles(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"styles": captionStyles,
	})
}
