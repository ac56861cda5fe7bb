package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/llm"
)

// LLMTextClassifier adapts an llm.LLMProvider into a RemoteTextClassifier,
// letting the text path be substituted by any configured chat model instead
// of the lexicon, per §4.2's "MUST accept substitution" requirement.
type LLMTextClassifier struct {
	provider llm.LLMProvider
	now      func() time.Time
}

func NewLLMTextClassifier(provider llm.LLMProvider) *LLMTextClassifier {
	return &LLMTextClassifier{provider: provider, now: time.Now}
}

type llmEmotionJSON struct {
	Primary    string   `json:"primary"`
	Intensity  float64  `json:"intensity"`
	Secondary  []string `json:"secondary"`
	Confidence float64  `json:"confidence"`
}

func (c *LLMTextClassifier) Classify(ctx context.Context, text string) (entity.EmotionReading, error) {
	prompt := fmt.Sprintf(
		`Classify the dominant emotion of the text below as exactly one of: happy, sad, angry, fear, surprise, disgust, neutral. Reply with ONLY a JSON object: {"primary":"...","intensity":0.0-1.0,"secondary":["..."],"confidence":0.0-1.0}.

Text: %s`, text)

	out, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		return entity.EmotionReading{}, err
	}

	out = strings.TrimSpace(out)
	if i := strings.Index(out, "{"); i >= 0 {
		if j := strings.LastIndex(out, "}"); j > i {
			out = out[i : j+1]
		}
	}

	var parsed llmEmotionJSON
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return entity.EmotionReading{}, fmt.Errorf("classify: unparseable model response: %w", err)
	}

	secondary := make([]entity.EmotionLabel, 0, len(parsed.Secondary))
	for _, s := range parsed.Secondary {
		secondary = append(secondary, entity.EmotionLabel(strings.ToLower(s)))
	}

	return entity.EmotionReading{
		Primary:    entity.EmotionLabel(strings.ToLower(parsed.Primary)),
		Intensity:  parsed.Intensity,
		Secondary:  secondary,
		Features:   "llm",
		Source:     entity.SourceText,
		Confidence: parsed.Confidence,
		TsUnix:     c.now().Unix(),
	}, nil
}
