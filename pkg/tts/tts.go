// Package tts defines the TTSPort the Orchestrator speaks to for a
// playback_url, and a deterministic local stub implementation. LocalStub is
// the only implementation in this package and is constructed directly; there
// is no provider selection by name, and no network calls are made.
package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/modernreader/orchestrator/internal/entity"
)

// Port is the contract the Orchestrator uses to turn a segment's text and a
// ProsodyPreset into a playable URL; concrete backends are opaque adapters.
type Port interface {
	Synthesize(ctx context.Context, text string, prosody entity.ProsodyPreset) (playbackURL string, err error)
}

// LocalStub never calls out to a network; it derives a content-addressed,
// fake URL so repeated calls with identical input are idempotent, which is
// useful for tests and for environments with no configured TTS backend.
type LocalStub struct {
	BaseURL string
}

func NewLocalStub(baseURL string) *LocalStub {
	if baseURL == "" {
		baseURL = "local://tts"
	}
	return &LocalStub{BaseURL: baseURL}
}

func (s *LocalStub) Synthesize(ctx context.Context, text string, prosody entity.ProsodyPreset) (string, error) {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.2f|%.2f", text, prosody.VoiceID, prosody.Rate, prosody.Pitch)))
	return fmt.Sprintf("%s/%s.wav", s.BaseURL, hex.EncodeToString(h[:])[:16]), nil
}
