package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/mdriyaz-a/captionflow/internal/service"
)

type UploadHandler struct {
	artifacts service.ArtifactService
}

func NewUploadHandler(artifacts service.ArtifactService) *UploadHandler {
	return &UploadHandler{artifacts: artifacts}
}

// ServeUpload streams a stored image back to the client. Resolution goes
// through the artifact service so files survive upload-dir moves.
func (h *UploadHandler) ServeUpload(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	if filename == "" || filename == "." || filename == ".." {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filename",
		})
	}

	path, err := h.artifacts.Resolve(filename)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}

	return c.SendFile(path)
}
