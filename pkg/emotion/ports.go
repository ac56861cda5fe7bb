package emotion

import (
	"context"

	"github.com/modernreader/orchestrator/internal/entity"
)

// RemoteTextClassifier lets the text path be substituted by a remote model
// while keeping the lexicon as the fallback. Grounded on pkg/llm.LLMProvider:
// an adapter wraps an llm.LLMProvider to satisfy this interface.
type RemoteTextClassifier interface {
	Classify(ctx context.Context, text string) (entity.EmotionReading, error)
}

// VisionClassifierPort is the injected backend for the image path.
type VisionClassifierPort interface {
	Classify(ctx context.Context, imageBytes []byte) (entity.EmotionReading, error)
}

// AudioClassifierPort is the injected backend for the audio path.
type AudioClassifierPort interface {
	Classify(ctx context.Context, audioBytes []byte) (entity.EmotionReading, error)
}
