package models

// StyledCaption is one generated caption variant. Captions are ephemeral:
// only the text the user finally picks is persisted, into Post.Caption.
type StyledCaption struct {
	Style      string   `json:"style"`
	Text       string   `json:"text"`
	Hashtags   []string `json:"hashtags"`
	Emojis     []string `json:"emojis"`
	Formatting string   `json:"formatting"`
}

// CaptionBatch is the pipeline result. It is never empty: a degraded path
// fills it with fallback captions and records the upstream error text.
type CaptionBatch struct {
	Captions []StyledCaption `json:"captions"`
	Error    string          `json:"error,omitempty"`
}

const (
	StyleMain          = "main"
	StyleCasual        = "casual"
	StyleFormal        = "formal"
	StylePoetic        = "poetic"
	StyleHumorous      = "humorous"
	StyleInspirational = "inspirational"
)
