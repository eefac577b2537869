package service

import (
	"context"
	"encoding/json"
	"image/color"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blipDoer replays canned inference responses and records the request sizes.
type blipDoer struct {
	responses []*http.Response
	requests  []blipRequest
}

func (d *blipDoer) Do(req *http.Request) (*http.Response, error) {
	body, _ := io.ReadAll(req.Body)
	var br blipRequest
	_ = json.Unmarshal(body, &br)
	d.requests = append(d.requests, br)
	return d.responses[len(d.requests)-1], nil
}

func TestBlipDescriber_Describe(t *testing.T) {
	path := writePNG(t, solidImage(64, 64, color.RGBA{20, 230, 20, 255}))

	doer := &blipDoer{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, blipResponse{Description: "a green field"}),
		},
	}

	d := NewBlipDescriber("https://blip.test", "key")
	d.SetHTTPClient(doer)

	got, err := d.Describe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a green field", got)

	require.Len(t, doer.requests, 1)
	assert.Equal(t, blipMaxNewTokens, doer.requests[0].MaxNewTokens)
	assert.NotEmpty(t, doer.requests[0].Image)
}

func TestBlipDescriber_RetriesAtReducedResolution(t *testing.T) {
	path := writePNG(t, solidImage(64, 64, color.RGBA{20, 230, 20, 255}))

	doer := &blipDoer{
		responses: []*http.Response{
			jsonResponse(http.StatusServiceUnavailable, blipResponse{Error: "model loading"}),
			jsonResponse(http.StatusOK, blipResponse{Description: "a green field"}),
		},
	}

	d := NewBlipDescriber("https://blip.test", "")
	d.SetHTTPClient(doer)

	got, err := d.Describe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a green field", got)

	require.Len(t, doer.requests, 2)
	assert.Equal(t, blipMaxNewTokens, doer.requests[0].MaxNewTokens)
	assert.Equal(t, blipRetryNewTokens, doer.requests[1].MaxNewTokens)
}

func TestBlipDescriber_BothAttemptsFail(t *testing.T) {
	path := writePNG(t, solidImage(64, 64, color.RGBA{20, 230, 20, 255}))

	doer := &blipDoer{
		responses: []*http.Response{
			jsonResponse(http.StatusServiceUnavailable, blipResponse{Error: "model loading"}),
			jsonResponse(http.StatusServiceUnavailable, blipResponse{Error: "model loading"}),
		},
	}

	d := NewBlipDescriber("https://blip.test", "")
	d.SetHTTPClient(doer)

	_, err := d.Describe(context.Background(), path)
	assert.Error(t, err)
}

func TestBlipDescriber_NotConfigured(t *testing.T) {
	d := NewBlipDescriber("", "")
	_, err := d.Describe(context.Background(), "whatever.png")
	assert.ErrorIs(t, err, ErrBlipNotConfigured)
}
