package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdriyaz-a/captionflow/internal/models"
)

// CohereCaptionGenerator issues one structured generation call and parses the
// free-text response into styled captions. A failed primary call is retried
// once against the lighter secondary model.
type CohereCaptionGenerator struct {
	client *CohereClient
}

func NewCohereCaptionGenerator(client *CohereClient) *CohereCaptionGenerator {
	return &CohereCaptionGenerator{client: client}
}

func (g *CohereCaptionGenerator) Generate(ctx context.Context, description string) (models.CaptionBatch, error) {
	description = normalizeDescription(description)
	prompt := buildSuggestionsPrompt(description)

	text, err := g.client.Generate(ctx, cohereGeneration{
		Model:       CohereModelPrimary,
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		slog.Info("primary model failed, retrying with " + CohereModelSecondary + ": " + err.Error())
		text, err = g.client.Generate(ctx, cohereGeneration{
			Model:       CohereModelSecondary,
			Prompt:      prompt,
			MaxTokens:   500,
			Temperature: 0.7,
		})
		if err != nil {
			return models.CaptionBatch{}, fmt.Errorf("caption generation failed on both models: %w", err)
		}
	}

	batch := parseCaptionResponse(text)
	if len(batch.Captions) == 0 {
		return models.CaptionBatch{}, fmt.Errorf("no captions could be parsed from model output")
	}
	return batch, nil
}

func buildSuggestionsPrompt(description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
Generate 3 different Instagram captions for the following image description:
"%s"

For each caption, provide:
1. A creative and engaging caption text
2. 3-5 relevant hashtags
3. Appropriate emojis to include
4. Formatting suggestions (line breaks, etc.)

Format your response as follows:

`, description)
	for i, style := range []string{"Casual", "Poetic", "Humorous"} {
		fmt.Fprintf(&b, `Caption %d (%s):
Text: [caption text]
Hashtags: [hashtags]
Emojis: [emojis]
Formatting: [formatting suggestions]

`, i+1, style)
	}
	return b.String()
}

// Parser sections, keyed on line prefixes.
const (
	sectionNone = iota
	sectionText
	sectionHashtags
	sectionEmojis
	sectionFormatting
)

// parseCaptionResponse walks the model output line by line as a small state
// machine: a "Caption N (Style):" header opens a new caption, the known field
// prefixes switch sections, anything else continues the active section.
// Malformed lines are skipped, never fatal — the upstream format is untrusted.
func parseCaptionResponse(responseText string) models.CaptionBatch {
	var captions []models.StyledCaption
	var current *models.StyledCaption
	section := sectionNone

	flush := func() {
		if current != nil {
			captions = append(captions, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(responseText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Caption"):
			flush()
			current = &models.StyledCaption{Style: parseStyleHeader(line)}
			section = sectionNone

		case current != nil && strings.HasPrefix(line, "Text:"):
			section = sectionText
			current.Text = strings.TrimSpace(line[len("Text:"):])

		case current != nil && strings.HasPrefix(line, "Hashtags:"):
			section = sectionHashtags
			current.Hashtags = appendTokens(current.Hashtags, line[len("Hashtags:"):])

		case current != nil && strings.HasPrefix(line, "Emojis:"):
			section = sectionEmojis
			current.Emojis = appendRunes(current.Emojis, line[len("Emojis:"):])

		case current != nil && strings.HasPrefix(line, "Formatting:"):
			section = sectionFormatting
			current.Formatting = strings.TrimSpace(line[len("Formatting:"):])

		case current != nil:
			// Continuation of the active section.
			switch section {
			case sectionText:
				current.Text += " " + line
			case sectionHashtags:
				current.Hashtags = appendTokens(current.Hashtags, line)
			case sectionEmojis:
				current.Emojis = appendRunes(current.Emojis, line)
			case sectionFormatting:
				current.Formatting += " " + line
			}
		}
	}
	flush()

	for i := range captions {
		captions[i].Text = cleanCaptionText(captions[i].Text)
	}

	return models.CaptionBatch{Captions: captions}
}

// parseStyleHeader extracts the parenthesized style from a caption header
// line; headers without one default to casual.
func parseStyleHeader(line string) string {
	open := strings.Index(line, "(")
	end := strings.Index(line, ")")
	if open >= 0 && end > open {
		return strings.ToLower(line[open+1 : end])
	}
	return models.StyleCasual
}

func appendTokens(tokens []string, raw string) []string {
	for _, tok := range strings.Fields(raw) {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func appendRunes(emojis []string, raw string) []string {
	for _, r := range strings.TrimSpace(raw) {
		if s := strings.TrimSpace(string(r)); s != "" {
			emojis = append(emojis, s)
		}
	}
	return emojis
}
