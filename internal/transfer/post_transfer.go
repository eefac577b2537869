package transfer

type PostCreation struct {
	Caption              string                `json:"caption"`
	ImagePath            string                `json:"image_path"`
	ImageDescription     string                `json:"image_description"`
	PostType             string                `json:"post_type"`
	InstagramCredentials *InstagramCredentials `json:"instagram_credentials"`
}

type PostUpdate struct {
	Caption  string `json:"caption"`
	PostType string `json:"post_type"`
}

type PublishRequest struct {
	InstagramCredentials *InstagramCredentials `json:"instagram_credentials"`
}

// Instagram publish acknowledgment states returned to clients. The triggering
// request never waits for the background job.
const (
	InstagramStatusQueued       = "queued"
	InstagramStatusSkipped      = "skipped"
	InstagramStatusFailed       = "failed"
	InstagramStatusNotRequested = "not_requested"
)

type CaptionTextRequest struct {
	Text string `json:"text"`
}
