package dto

type TTSRequest struct {
	Text    string  `json:"text" validate:"required"`
	Voice   string  `json:"voice"`
	Emotion string  `json:"emotion"`
	Speed   float64 `json:"speed"`
}

type TTSResponse struct {
	AudioURL    string  `json:"audio_url,omitempty"`
	AudioBase64 string  `json:"audio_base64,omitempty"`
	Duration    float64 `json:"duration"`
	Format      string  `json:"format"`
	Provider    string  `json:"provider"`
	Voice       string  `json:"voice"`
}

type STTRequest struct {
	AudioBase64 string `json:"audio_base64" validate:"required"`
	Language    string `json:"language"`
}

type STTResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	Duration   float64 `json:"duration"`
	Provider   string  `json:"provider"`
}
