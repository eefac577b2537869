package service

import "strings"

// Default description used when the caller supplies nothing usable, and the
// hard cap applied before a description is embedded into any remote prompt.
const (
	placeholderDescription = "A beautiful image"
	maxDescriptionLength   = 500
)

// Preamble phrases remote models keep prepending despite instructions.
var captionPrefixes = []string{
	"Here's a reflective and thoughtful Instagram caption:",
	"Here's a reflective caption:",
	"Here's a thoughtful caption:",
	"Here's a humorous caption:",
	"Here's a casual caption:",
	"Here's a poetic caption:",
	"Here's an Instagram caption:",
	"Sure, how about:",
	"How about:",
	"I suggest:",
	"Try this:",
	"Here is a simple & lighthearted Instagram caption idea:",
	"Here's a simple caption:",
	"Here's a lighthearted caption:",
	"Here's a simple & lighthearted caption:",
	"Caption:",
}

// normalizeDescription enforces the generator input contract: blank input is
// replaced with a placeholder, overlong input is truncated with an ellipsis.
func normalizeDescription(description string) string {
	if strings.TrimSpace(description) == "" {
		return placeholderDescription
	}
	if len(description) > maxDescriptionLength {
		return description[:maxDescriptionLength] + "..."
	}
	return description
}

// cleanCaptionText strips known model preambles, unwraps symmetric quotes and
// removes embedded CSS-like markup fragments (a known contamination defect in
// remote model output).
func cleanCaptionText(text string) string {
	text = strings.TrimSpace(text)

	for _, prefix := range captionPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
		}
	}
	// A second "Caption:" sometimes survives the first pass.
	text = strings.TrimSpace(strings.TrimPrefix(text, "Caption:"))

	if len(text) >= 2 {
		if (text[0] == '"' && text[len(text)-1] == '"') || (text[0] == '\'' && text[len(text)-1] == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}

	return stripMarkupArtifacts(text)
}

func stripMarkupArtifacts(text string) string {
	start := strings.Index(text, ";position:")
	if start <= 0 {
		return text
	}
	end := strings.Index(text[start:], "}")
	if end >= 0 {
		return text[:start] + text[start+end+1:]
	}
	return text[:start]
}
