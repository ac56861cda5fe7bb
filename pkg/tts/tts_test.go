package tts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernreader/orchestrator/internal/entity"
)

func TestLocalStub_SynthesizeIsDeterministic(t *testing.T) {
	s := NewLocalStub("")
	prosody := entity.ProsodyPreset{VoiceID: "v1", Rate: 1.0, Pitch: 0.0}

	url1, err := s.Synthesize(context.Background(), "hello", prosody)
	require.NoError(t, err)
	url2, err := s.Synthesize(context.Background(), "hello", prosody)
	require.NoError(t, err)

	assert.Equal(t, url1, url2)
}

func TestLocalStub_DifferentTextDifferentURL(t *testing.T) {
	s := NewLocalStub("")
	prosody := entity.ProsodyPreset{}

	url1, _ := s.Synthesize(context.Background(), "hello", prosody)
	url2, _ := s.Synthesize(context.Background(), "goodbye", prosody)

	assert.NotEqual(t, url1, url2)
}

func TestLocalStub_TranscribeReturnsDegradedResult(t *testing.T) {
	s := NewLocalStub("")
	tr, err := s.Transcribe(context.Background(), []byte{0x01}, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, tr.Confidence)
	assert.Equal(t, "und", tr.Language)
}
