package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mdriyaz-a/captionflow/internal/imaging"
)

// Inference size caps. The first attempt downsamples to blipMaxDimension;
// a failed call is retried once at blipRetryDimension with a shorter output
// budget before giving up.
const (
	blipMaxDimension   = 1000
	blipRetryDimension = 500

	blipMaxNewTokens   = 50
	blipRetryNewTokens = 30
)

var ErrBlipNotConfigured = errors.New("blip inference endpoint is not configured")

// BlipDescriber runs an image-to-text model behind a hosted inference
// endpoint. Constructed once at startup and safe for concurrent use.
type BlipDescriber struct {
	baseURL string
	apiKey  string
	http    httpDoer
}

func NewBlipDescriber(baseURL, apiKey string) *BlipDescriber {
	return &BlipDescriber{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// SetHTTPClient overrides the default HTTP client, mainly for tests.
func (d *BlipDescriber) SetHTTPClient(client httpDoer) {
	if client == nil {
		d.http = &http.Client{Timeout: 90 * time.Second}
		return
	}
	d.http = client
}

func (d *BlipDescriber) Describe(ctx context.Context, imagePath string) (string, error) {
	if d.baseURL == "" {
		return "", ErrBlipNotConfigured
	}

	img, _, err := imaging.Decode(imagePath)
	if err != nil {
		return "", err
	}

	description, err := d.infer(ctx, imaging.Scale(img, blipMaxDimension), blipMaxNewTokens)
	if err == nil {
		return description, nil
	}

	slog.Info("blip inference failed, retrying at reduced resolution: " + err.Error())
	description, retryErr := d.infer(ctx, imaging.Scale(img, blipRetryDimension), blipRetryNewTokens)
	if retryErr != nil {
		return "", fmt.Errorf("blip inference failed twice: %w", retryErr)
	}
	return description, nil
}

type blipRequest struct {
	Image        string `json:"image"` // base64-encoded JPEG
	MaxNewTokens int    `json:"max_new_tokens"`
}

type blipResponse struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

func (d *BlipDescriber) infer(ctx context.Context, img image.Image, maxNewTokens int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("error encoding image for inference: %w", err)
	}

	payload := blipRequest{
		Image:        base64.StdEncoding.EncodeToString(buf.Bytes()),
		MaxNewTokens: maxNewTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/describe", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("error reading inference response: %w", err)
	}

	var result blipResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(result.Error)
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("inference endpoint returned an error: %s", msg)
	}

	description := strings.TrimSpace(result.Description)
	if description == "" {
		return "", errors.New("inference endpoint returned an empty description")
	}
	return description, nil
}
