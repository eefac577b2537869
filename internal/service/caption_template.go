package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mdriyaz-a/captionflow/internal/models"
)

// CaptionGenerator turns a description into a batch of styled captions.
type CaptionGenerator interface {
	Generate(ctx context.Context, description string) (models.CaptionBatch, error)
}

// TemplateCaptionGenerator composes captions from deterministic per-style
// templates. It has no failure mode and terminates every fallback chain.
type TemplateCaptionGenerator struct{}

func NewTemplateCaptionGenerator() *TemplateCaptionGenerator {
	return &TemplateCaptionGenerator{}
}

func (g *TemplateCaptionGenerator) Generate(ctx context.Context, description string) (models.CaptionBatch, error) {
	description = strings.ToLower(normalizeDescription(description))

	return models.CaptionBatch{
		Captions: []models.StyledCaption{
			{
				Style:      models.StyleCasual,
				Text:       fmt.Sprintf("Just vibing with this %s! Life's simple pleasures.", description),
				Hashtags:   []string{"#GoodVibes", "#InstaDaily", "#LifeIsGood"},
				Emojis:     []string{"😊", "✌️", "🌟"},
				Formatting: "Add a line break after the caption text",
			},
			{
				Style:      models.StylePoetic,
				Text:       fmt.Sprintf("In the gentle whispers of %s, I found a piece of my soul.", description),
				Hashtags:   []string{"#SoulfulMoments", "#Poetry", "#DeepThoughts"},
				Emojis:     []string{"🌹", "✨", "💫"},
				Formatting: "Add a line break after each sentence",
			},
			{
				Style:      models.StyleHumorous,
				Text:       fmt.Sprintf("When %s is your therapy! No regrets, just good times.", description),
				Hashtags:   []string{"#NoFilter", "#JustForLaughs", "#WeekendVibes"},
				Emojis:     []string{"😂", "🤣", "🙌"},
				Formatting: "Add emojis at the end of the caption",
			},
		},
	}, nil
}
