package service

import (
	"context"
	"fmt"

	"github.com/mdriyaz-a/captionflow/internal/models"
)

const fiveShotPrompt = `
Example 1:
Image Description: A colorful sunset over the ocean with a small sailboat in the distance.
Caption: "Sailing into the golden hour. #SunsetMagic"

Example 2:
Image Description: A close-up shot of a delicious slice of pepperoni pizza with melted cheese.
Caption: "Cheesy dreams and pizza cravings. #FoodieHeaven"

Example 3:
Image Description: A bustling city street at night with neon lights and busy crowds.
Caption: "City lights, big dreams. #UrbanVibes"

Example 4:
Image Description: A serene mountain landscape covered in snow under a clear blue sky.
Caption: "Chasing peaks and frozen dreams. #NatureLovers"

Example 5:
Image Description: A bright and playful picture of a dog running happily in a park.
Caption: "Pure joy on four legs. #HappyPup"

Now, given the following image description, generate a creative, engaging, and appropriate Instagram caption.

Image Description: "%s"
Caption:`

var directStylePrompts = map[string]string{
	models.StyleCasual: `
Generate a casual, friendly Instagram caption for this image description: "%s"
Make it short, use emojis, and include 1-2 hashtags.
Return ONLY the caption text without any prefixes like "Here's a caption:" or "Try this:".
`,
	models.StylePoetic: `
Generate a poetic, thoughtful Instagram caption for this image description: "%s"
Make it reflective, use elegant language, and include 1-2 meaningful hashtags.
Return ONLY the caption text without any prefixes like "Here's a caption:" or "Try this:".
`,
	models.StyleHumorous: `
Generate a funny, witty Instagram caption for this image description: "%s"
Make it humorous, use wordplay, and include 1-2 funny hashtags.
Return ONLY the caption text without any prefixes like "Here's a caption:" or "Try this:".
`,
}

// Hashtag and emoji sets are fixed per style rather than model-derived: one
// generation call per style is already the cost ceiling, and fixed sets keep
// the output shape reliable.
var directSuggestions = map[string]struct {
	hashtags   []string
	emojis     []string
	formatting string
}{
	models.StyleMain:     {[]string{"#Instagram", "#PhotoOfTheDay"}, []string{"📸", "✨"}, "Add a line break after the caption text"},
	models.StyleCasual:   {[]string{"#GoodVibes", "#InstaDaily"}, []string{"😊", "✌️"}, "Add emojis at the end of the caption"},
	models.StylePoetic:   {[]string{"#SoulfulMoments", "#DeepThoughts"}, []string{"🌹", "💫"}, "Add a line break after each sentence"},
	models.StyleHumorous: {[]string{"#JustForLaughs", "#WeekendVibes"}, []string{"😂", "🤣"}, "Add emojis at the beginning of the caption"},
}

// DirectCaptionGenerator issues one generation call per style: a five-shot
// prompt for the main caption against the primary model, then style-specific
// prompts against the lighter model.
type DirectCaptionGenerator struct {
	client *CohereClient
}

func NewDirectCaptionGenerator(client *CohereClient) *DirectCaptionGenerator {
	return &DirectCaptionGenerator{client: client}
}

func (g *DirectCaptionGenerator) Generate(ctx context.Context, description string) (models.CaptionBatch, error) {
	description = normalizeDescription(description)

	mainText, err := g.client.Generate(ctx, cohereGeneration{
		Model:         CohereModelPrimary,
		Prompt:        fmt.Sprintf(fiveShotPrompt, description),
		MaxTokens:     50,
		Temperature:   0.7,
		StopSequences: []string{"\n"},
	})
	if err != nil {
		return models.CaptionBatch{}, fmt.Errorf("main caption generation failed: %w", err)
	}

	captions := []models.StyledCaption{styledCaption(models.StyleMain, mainText)}

	for _, style := range []string{models.StyleCasual, models.StylePoetic, models.StyleHumorous} {
		text, err := g.client.Generate(ctx, cohereGeneration{
			Model:         CohereModelSecondary,
			Prompt:        fmt.Sprintf(directStylePrompts[style], description),
			MaxTokens:     50,
			Temperature:   0.7,
			StopSequences: []string{"\n\n"},
		})
		if err != nil {
			return models.CaptionBatch{}, fmt.Errorf("%s caption generation failed: %w", style, err)
		}
		captions = append(captions, styledCaption(style, text))
	}

	return models.CaptionBatch{Captions: captions}, nil
}

func styledCaption(style, text string) models.StyledCaption {
	s := directSuggestions[style]
	return models.StyledCaption{
		Style:      style,
		Text:       cleanCaptionText(text),
		Hashtags:   s.hashtags,
		Emojis:     s.emojis,
		Formatting: s.formatting,
	}
}
