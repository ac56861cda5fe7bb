package emotion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modernreader/orchestrator/internal/entity"
)

func TestPredict_TextLexiconHappy(t *testing.T) {
	e := New(nil)
	r := e.Predict(context.Background(), Payload{Text: "今天天氣真好！我很開心。"})
	assert.Equal(t, entity.Happy, r.Primary)
	assert.Equal(t, entity.SourceText, r.Source)
}

func TestPredict_TextWithoutKeywordsIsNeutral(t *testing.T) {
	e := New(nil)
	r := e.Predict(context.Background(), Payload{Text: "just some plain narration"})
	assert.Equal(t, entity.Neutral, r.Primary)
}

func TestPredict_MemoizesIdenticalPayload(t *testing.T) {
	e := New(nil)
	first := e.Predict(context.Background(), Payload{Text: "I am so happy today"})
	second := e.Predict(context.Background(), Payload{Text: "I am so happy today"})
	assert.Equal(t, first, second)
}

func TestPredict_ImageWithoutPortIsDegraded(t *testing.T) {
	e := New(nil)
	r := e.Predict(context.Background(), Payload{ImageBytes: []byte{0xFF, 0xD8, 0xFF}})
	assert.Equal(t, entity.Neutral, r.Primary)
	assert.Equal(t, 0.0, r.Confidence)
	assert.Equal(t, entity.SourceImage, r.Source)
}

type failingVision struct{}

func (failingVision) Classify(ctx context.Context, img []byte) (entity.EmotionReading, error) {
	return entity.EmotionReading{}, errors.New("backend down")
}

func TestPredict_ImageClassifierFailureDegrades(t *testing.T) {
	e := New(nil, WithVisionClassifier(failingVision{}))
	r := e.Predict(context.Background(), Payload{ImageBytes: []byte{0xFF, 0xD8, 0xFF, 0x01}})
	assert.Equal(t, entity.Neutral, r.Primary)
	assert.Equal(t, 0.0, r.Confidence)
}

type failingRemoteText struct{}

func (failingRemoteText) Classify(ctx context.Context, text string) (entity.EmotionReading, error) {
	return entity.EmotionReading{}, errors.New("remote unavailable")
}

func TestPredict_RemoteTextFailureFallsBackWithCappedConfidence(t *testing.T) {
	e := New(nil, WithRemoteTextClassifier(failingRemoteText{}))
	r := e.Predict(context.Background(), Payload{Text: "I am so happy and joyful and glad"})
	assert.LessOrEqual(t, r.Confidence, 0.5)
}
