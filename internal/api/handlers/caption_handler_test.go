package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captionTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		UploadDir: t.TempDir(),
		StaticDir: t.TempDir(),
	}
	artifacts := service.NewArtifactService(cfg, nil)
	// No remote tiers configured: describe and generate run on the
	// heuristic and template terminals.
	captions := service.NewCaptionService([]service.Describer{service.NewHeuristicDescriber()}, nil)

	h := NewCaptionHandler(captions, artifacts)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", int64(7))
		return c.Next()
	})
	app.Post("/api/captions/generate", h.GenerateCaptions)
	app.Get("/api/captions/styles", h.ListStyles)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	return parsed
}

func TestGenerateCaptions_FromText(t *testing.T) {
	app := captionTestApp(t)

	payload := `{"text": "a dog running in the park"}`
	req := httptest.NewRequest(http.MethodPost, "/api/captions/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "a dog running in the park", body["description"])

	captions := body["captions"].(map[string]interface{})["captions"].([]interface{})
	assert.NotEmpty(t, captions)
}

func TestGenerateCaptions_WhitespaceTextRejected(t *testing.T) {
	app := captionTestApp(t)

	payload := `{"text": "   \n\t  "}`
	req := httptest.NewRequest(http.MethodPost, "/api/captions/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateCaptions_FromImage(t *testing.T) {
	app := captionTestApp(t)

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{230, 20, 20, 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/captions/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	parsed := decodeBody(t, resp)
	assert.Contains(t, parsed["description"], "vibrant red")
	assert.NotEmpty(t, parsed["image_path"])
}

func TestGenerateCaptions_BadFileType(t *testing.T) {
	app := captionTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/captions/generate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListStyles(t *testing.T) {
	app := captionTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/captions/styles", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	styles := body["styles"].([]interface{})
	require.Len(t, styles, 5)

	ids := make([]string, 0, len(styles))
	for _, s := range styles {
		style := s.(map[string]interface{})
		ids = append(ids, style["id"].(string))
		assert.NotEmpty(t, style["name"])
		assert.NotEmpty(t, style["description"])
	}
	assert.Contains(t, ids, "casual")
	assert.Contains(t, ids, "poetic")
	assert.Contains(t, ids, "humorous")
}
