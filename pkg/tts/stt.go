package tts

import "context"

// Transcription is the result of a speech-to-text call.
type Transcription struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	DurationS  float64 `json:"duration"`
	Provider   string  `json:"provider"`
}

// Transcriber is the STT counterpart of Port; treated as an opaque remote
// service per the component's Non-goal on training or hosting ML models.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (Transcription, error)
}

// LocalStub reports an honestly degraded transcription rather than
// fabricating text, matching the "never silently succeed" posture used
// elsewhere for unconfigured remote backends.
func (s *LocalStub) Transcribe(ctx context.Context, audio []byte, language string) (Transcription, error) {
	if language == "" {
		language = "und"
	}
	return Transcription{
		Text:       "",
		Confidence: 0,
		Language:   language,
		Provider:   "local-stub",
	}, nil
}
