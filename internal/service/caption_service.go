package service

import (
	"context"
	"log/slog"

	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/models"
)

// CaptionService is the caption pipeline orchestrator. Both operations walk a
// tiered fallback chain: the most capable strategy first, one immediate
// one-directional step down on any failure, with an infallible bottom tier.
// Neither operation ever returns an error to its caller.
type CaptionService interface {
	DescribeImage(ctx context.Context, imagePath string) string
	GenerateCaptions(ctx context.Context, description string) models.CaptionBatch
}

type captionService struct {
	describers []Describer
	generators []CaptionGenerator
	terminal   *TemplateCaptionGenerator
}

// NewCaptionService wires an explicit fallback chain. The template generator
// is always the terminal caption tier regardless of the supplied generators.
func NewCaptionService(describers []Describer, generators []CaptionGenerator) CaptionService {
	return &captionService{
		describers: describers,
		generators: generators,
		terminal:   NewTemplateCaptionGenerator(),
	}
}

// BuildCaptionService assembles the chain for the configured deployment
// profile. The active description strategy is a config-time decision, not
// runtime capability probing.
func BuildCaptionService(cfg config.Config) CaptionService {
	var describers []Describer
	if cfg.DescriberStrategy == "blip" && cfg.BlipBaseURL != "" {
		describers = append(describers, NewBlipDescriber(cfg.BlipBaseURL, cfg.BlipAPIKey))
	}
	describers = append(describers, NewHeuristicDescriber())

	client := NewCohereClient(cfg.CohereAPIKey, cfg.CohereBaseURL)
	generators := []CaptionGenerator{
		NewDirectCaptionGenerator(client),
		NewCohereCaptionGenerator(client),
	}

	return NewCaptionService(describers, generators)
}

func (s *captionService) DescribeImage(ctx context.Context, imagePath string) string {
	for _, d := range s.describers {
		description, err := d.Describe(ctx, imagePath)
		if err == nil && description != "" {
			return description
		}
		if err != nil {
			slog.Info("describer failed, falling back: " + err.Error())
		}
	}
	return FallbackDescription
}

func (s *captionService) GenerateCaptions(ctx context.Context, description string) models.CaptionBatch {
	var lastErr error
	for _, g := range s.generators {
		batch, err := g.Generate(ctx, description)
		if err == nil && len(batch.Captions) > 0 {
			return batch
		}
		if err != nil {
			lastErr = err
			slog.Info("caption generator failed, falling back: " + err.Error())
		}
	}

	// Terminal tier cannot fail; annotate the batch so degraded responses
	// stay distinguishable without changing shape.
	batch, _ := s.terminal.Generate(ctx, description)
	if lastErr != nil {
		batch.Error = lastErr.Error()
	}
	return batch
}
