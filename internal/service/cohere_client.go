package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Remote model identifiers. The lighter model doubles as the retry target
// when the primary call fails.
const (
	CohereModelPrimary   = "command"
	CohereModelSecondary = "command-light"
)

var ErrCohereAPIKeyMissing = errors.New("cohere api key is not configured")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type generateRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
	Temperature      float64  `json:"temperature,omitempty"`
	K                int      `json:"k"`
	P                float64  `json:"p,omitempty"`
	FrequencyPenalty float64  `json:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty"`
	StopSequences    []string `json:"stop_sequences,omitempty"`
}

type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
	Message string `json:"message"`
}

type cohereGeneration struct {
	Model         string
	Prompt        string
	MaxTokens     int
	Temperature   float64
	StopSequences []string
}

// CohereClient talks to the Cohere generate API over plain HTTP.
type CohereClient struct {
	apiKey  string
	baseURL string
	http    httpDoer
}

func NewCohereClient(apiKey, baseURL string) *CohereClient {
	return &CohereClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// SetHTTPClient overrides the default HTTP client, mainly for tests.
func (c *CohereClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
		return
	}
	c.http = client
}

// Ping issues the smallest possible generation call, used by health checks.
func (c *CohereClient) Ping(ctx context.Context) error {
	_, err := c.Generate(ctx, cohereGeneration{
		Model:     CohereModelSecondary,
		Prompt:    "Say ok.",
		MaxTokens: 2,
	})
	return err
}

func (c *CohereClient) Generate(ctx context.Context, gen cohereGeneration) (string, error) {
	if c.apiKey == "" {
		return "", ErrCohereAPIKeyMissing
	}

	payload := generateRequest{
		Model:         gen.Model,
		Prompt:        gen.Prompt,
		MaxTokens:     gen.MaxTokens,
		Temperature:   gen.Temperature,
		P:             0.75,
		StopSequences: gen.StopSequences,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	endpoint := c.baseURL + "/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("cohere request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("error reading cohere response: %w", err)
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing cohere response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("cohere returned an error: %s", msg)
	}

	if len(result.Generations) == 0 {
		return "", errors.New("cohere returned no generations")
	}

	return strings.TrimSpace(result.Generations[0].Text), nil
}
