package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modernreader/orchestrator/internal/entity"
)

func TestHaptic_HappyBaseline(t *testing.T) {
	tb := New()
	h := tb.Haptic(entity.Happy, 1.0)
	assert.Equal(t, "gentle_pulse", h.Name)
	assert.InDelta(t, 0.70, h.Intensity, 1e-9)
}

func TestHaptic_IntensityScalesAndClamps(t *testing.T) {
	tb := New()
	low := tb.Haptic(entity.Surprise, 0.0) // scaled by max(0.2, 0) = 0.2
	assert.InDelta(t, 0.20, low.Intensity, 1e-9)

	high := tb.Haptic(entity.Surprise, 5.0) // would exceed 1.0 without clamp
	assert.Equal(t, 1.0, high.Intensity)
}

func TestUnknownLabelCollapsesToNeutral(t *testing.T) {
	tb := New()
	p := tb.Prosody(entity.EmotionLabel("unknown"))
	assert.Equal(t, "normal", p.VoiceID)
}

func TestHapticPatternNamesCoversAllLabels(t *testing.T) {
	names := HapticPatternNames()
	assert.Len(t, names, len(entity.AllEmotionLabels))
}

func TestHapticPatternByName(t *testing.T) {
	p, ok := HapticPatternByName("sharp_burst")
	assert.True(t, ok)
	assert.Equal(t, 200, p.FrequencyHz)

	_, ok = HapticPatternByName("does_not_exist")
	assert.False(t, ok)
}
