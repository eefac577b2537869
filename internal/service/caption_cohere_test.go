package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/mdriyaz-a/captionflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `Caption 1 (Casual):
Text: "Chasing sunsets and good vibes"
Hashtags: #Sunset #GoodVibes #Beach
Emojis: 🌅😊
Formatting: Add a line break after the caption text

Caption 2 (Poetic):
Text: Golden light spills over the horizon,
and the day exhales.
Hashtags: #GoldenHour
#Poetry
Emojis: 🌅
Formatting: Add a line break after each sentence

Caption 3 (Humorous):
Text: The sun also sets on my productivity
Hashtags: #NoFilter #SundayMood
Emojis: 😂
Formatting: Add emojis at the end
`

func TestParseCaptionResponse(t *testing.T) {
	batch := parseCaptionResponse(sampleResponse)
	require.Len(t, batch.Captions, 3)

	casual := batch.Captions[0]
	assert.Equal(t, models.StyleCasual, casual.Style)
	assert.Equal(t, "Chasing sunsets and good vibes", casual.Text)
	assert.Equal(t, []string{"#Sunset", "#GoodVibes", "#Beach"}, casual.Hashtags)
	assert.Equal(t, []string{"🌅", "😊"}, casual.Emojis)
	assert.Equal(t, "Add a line break after the caption text", casual.Formatting)

	poetic := batch.Captions[1]
	assert.Equal(t, models.StylePoetic, poetic.Style)
	assert.Equal(t, "Golden light spills over the horizon, and the day exhales.", poetic.Text)
	assert.Equal(t, []string{"#GoldenHour", "#Poetry"}, poetic.Hashtags)

	humorous := batch.Captions[2]
	assert.Equal(t, models.StyleHumorous, humorous.Style)
}

func TestParseCaptionResponse_Malformed(t *testing.T) {
	t.Run("garbage before first header is ignored", func(t *testing.T) {
		batch := parseCaptionResponse("some preamble text\nCaption 1 (Casual):\nText: hello\n")
		require.Len(t, batch.Captions, 1)
		assert.Equal(t, "hello", batch.Captions[0].Text)
	})

	t.Run("header without style defaults to casual", func(t *testing.T) {
		batch := parseCaptionResponse("Caption 1:\nText: hello\n")
		require.Len(t, batch.Captions, 1)
		assert.Equal(t, models.StyleCasual, batch.Captions[0].Style)
	})

	t.Run("empty input yields empty batch", func(t *testing.T) {
		batch := parseCaptionResponse("")
		assert.Empty(t, batch.Captions)
	})
}

// scriptedDoer replays canned HTTP responses in order.
type scriptedDoer struct {
	responses []*http.Response
	errs      []error
	requests  []generateRequest
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	var gr generateRequest
	_ = json.Unmarshal(body, &gr)
	d.requests = append(d.requests, gr)

	i := len(d.requests) - 1
	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.responses[i], nil
}

func jsonResponse(status int, payload interface{}) *http.Response {
	body, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func generationOf(text string) generateResponse {
	var resp generateResponse
	resp.Generations = append(resp.Generations, struct {
		Text string `json:"text"`
	}{Text: text})
	return resp
}

func TestCohereCaptionGenerator_RetriesOnSecondaryModel(t *testing.T) {
	doer := &scriptedDoer{
		responses: []*http.Response{
			jsonResponse(http.StatusTooManyRequests, generateResponse{Message: "rate limited"}),
			jsonResponse(http.StatusOK, generationOf(sampleResponse)),
		},
	}

	client := NewCohereClient("test-key", "https://cohere.test/v1")
	client.SetHTTPClient(doer)

	g := NewCohereCaptionGenerator(client)
	batch, err := g.Generate(context.Background(), "a sunset over the sea")
	require.NoError(t, err)
	assert.Len(t, batch.Captions, 3)

	require.Len(t, doer.requests, 2)
	assert.Equal(t, CohereModelPrimary, doer.requests[0].Model)
	assert.Equal(t, CohereModelSecondary, doer.requests[1].Model)
}

func TestCohereCaptionGenerator_BothModelsFail(t *testing.T) {
	doer := &scriptedDoer{
		responses: []*http.Response{
			jsonResponse(http.StatusInternalServerError, generateResponse{Message: "boom"}),
			jsonResponse(http.StatusInternalServerError, generateResponse{Message: "boom"}),
		},
	}

	client := NewCohereClient("test-key", "https://cohere.test/v1")
	client.SetHTTPClient(doer)

	g := NewCohereCaptionGenerator(client)
	_, err := g.Generate(context.Background(), "a sunset")
	assert.Error(t, err)
}

func TestCohereClient_MissingKey(t *testing.T) {
	client := NewCohereClient("", "https://cohere.test/v1")
	_, err := client.Generate(context.Background(), cohereGeneration{Model: CohereModelPrimary, Prompt: "hi"})
	assert.ErrorIs(t, err, ErrCohereAPIKeyMissing)
}
