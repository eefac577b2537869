package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mdriyaz-a/captionflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDescriber struct{ err error }

func (d *failingDescriber) Describe(ctx context.Context, imagePath string) (string, error) {
	return "", d.err
}

type fixedDescriber struct{ text string }

func (d *fixedDescriber) Describe(ctx context.Context, imagePath string) (string, error) {
	return d.text, nil
}

type failingGenerator struct{ err error }

func (g *failingGenerator) Generate(ctx context.Context, description string) (models.CaptionBatch, error) {
	return models.CaptionBatch{}, g.err
}

func TestCaptionService_DescribeFallsThroughChain(t *testing.T) {
	s := NewCaptionService([]Describer{
		&failingDescriber{err: errors.New("model offline")},
		&fixedDescriber{text: "a red square image"},
	}, nil)

	got := s.DescribeImage(context.Background(), "whatever.jpg")
	assert.Equal(t, "a red square image", got)
}

func TestCaptionService_DescribeTerminalFallback(t *testing.T) {
	s := NewCaptionService([]Describer{
		&failingDescriber{err: errors.New("model offline")},
		&failingDescriber{err: errors.New("cannot decode")},
	}, nil)

	got := s.DescribeImage(context.Background(), "whatever.jpg")
	assert.Equal(t, FallbackDescription, got)
}

func TestCaptionService_GenerateNeverFails(t *testing.T) {
	s := NewCaptionService(nil, []CaptionGenerator{
		&failingGenerator{err: errors.New("api down")},
		&failingGenerator{err: errors.New("also down")},
	})

	batch := s.GenerateCaptions(context.Background(), "a sunset")
	require.NotEmpty(t, batch.Captions)
	assert.Equal(t, "also down", batch.Error)
}

func TestCaptionService_GenerateUsesFirstWorkingTier(t *testing.T) {
	s := NewCaptionService(nil, []CaptionGenerator{
		&failingGenerator{err: errors.New("api down")},
		NewTemplateCaptionGenerator(),
	})

	batch := s.GenerateCaptions(context.Background(), "a sunset")
	require.NotEmpty(t, batch.Captions)
	assert.Empty(t, batch.Error)
}

func TestTemplateCaptionGenerator_AlwaysProduces(t *testing.T) {
	g := NewTemplateCaptionGenerator()

	inputs := []string{
		"",
		"   ",
		"a dog",
		strings.Repeat("long description ", 100),
	}

	for _, input := range inputs {
		batch, err := g.Generate(context.Background(), input)
		require.NoError(t, err)
		require.NotEmpty(t, batch.Captions)
		for _, c := range batch.Captions {
			assert.NotEmpty(t, c.Style)
			assert.NotEmpty(t, c.Text)
			assert.NotEmpty(t, c.Hashtags)
			assert.NotEmpty(t, c.Emojis)
		}
	}
}
