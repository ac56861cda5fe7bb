package dto

// DetectEmotionRequest carries a base64-encoded still frame for the vision
// classifier path of the EmotionEngine.
type DetectEmotionRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}
