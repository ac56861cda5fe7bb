package factory

import (
	"fmt"

	"github.com/modernreader/orchestrator/pkg/llm"
	"github.com/modernreader/orchestrator/pkg/llm/huggingface"
	"github.com/modernreader/orchestrator/pkg/llm/ollama"
)

// NewLLMProvider selects the backend used as the EmotionEngine's remote text
// classifier. Returns (nil, nil) for
// an empty providerType so callers can treat "no remote classifier" as a
// deliberate, unconfigured choice rather than an error.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "":
		return nil, nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
