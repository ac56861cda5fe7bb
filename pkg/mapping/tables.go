// Package mapping holds the static, versioned emotion-to-modality tables
// (C3): the v1 baseline values locked in for prosody, haptics, scent and
// AR overlays.
package mapping

import "github.com/modernreader/orchestrator/internal/entity"

type baseline struct {
	prosody entity.ProsodyPreset
	haptic  entity.HapticPattern
	scent   entity.ScentRecipe
	ar      entity.AROverlay
}

var v1 = map[entity.EmotionLabel]baseline{
	entity.Happy: {
		prosody: entity.ProsodyPreset{VoiceID: "cheerful", Rate: 1.10, Pitch: 1.10, Volume: 1.00},
		haptic:  entity.HapticPattern{Name: "gentle_pulse", Intensity: 0.70, FrequencyHz: 180, DurationMs: 1500, Regions: []entity.BodyRegion{entity.RegionChest, entity.RegionShoulders}},
		scent:   entity.ScentRecipe{Name: "happy", Intensity: 0.80, DurationSeconds: 180},
		ar:      entity.AROverlay{Kind: "sparkles", Opacity: 0.70, Particles: 50},
	},
	entity.Sad: {
		prosody: entity.ProsodyPreset{VoiceID: "melancholic", Rate: 0.90, Pitch: 0.90, Volume: 0.80},
		haptic:  entity.HapticPattern{Name: "slow_wave", Intensity: 0.50, FrequencyHz: 60, DurationMs: 3000, Regions: []entity.BodyRegion{entity.RegionChest, entity.RegionBack}},
		scent:   entity.ScentRecipe{Name: "sad", Intensity: 0.60, DurationSeconds: 300},
		ar:      entity.AROverlay{Kind: "rain", Opacity: 0.50, Particles: 30},
	},
	entity.Angry: {
		prosody: entity.ProsodyPreset{VoiceID: "intense", Rate: 1.20, Pitch: 1.00, Volume: 1.10},
		haptic:  entity.HapticPattern{Name: "sharp_burst", Intensity: 0.90, FrequencyHz: 200, DurationMs: 500, Regions: []entity.BodyRegion{entity.RegionArms, entity.RegionChest, entity.RegionBack}},
		scent:   entity.ScentRecipe{Name: "angry", Intensity: 0.50, DurationSeconds: 120},
		ar:      entity.AROverlay{Kind: "flames", Opacity: 0.80, Particles: 60},
	},
	entity.Fear: {
		prosody: entity.ProsodyPreset{VoiceID: "tense", Rate: 1.05, Pitch: 1.05, Volume: 1.00},
		haptic:  entity.HapticPattern{Name: "tremor", Intensity: 0.80, FrequencyHz: 150, DurationMs: 2000, Regions: []entity.BodyRegion{entity.RegionSpine, entity.RegionShoulders}},
		scent:   entity.ScentRecipe{Name: "fear", Intensity: 0.70, DurationSeconds: 240},
		ar:      entity.AROverlay{Kind: "fog", Opacity: 0.60, Particles: 40},
	},
	entity.Surprise: {
		prosody: entity.ProsodyPreset{VoiceID: "energetic", Rate: 1.15, Pitch: 1.05, Volume: 1.00},
		haptic:  entity.HapticPattern{Name: "sudden_spike", Intensity: 1.00, FrequencyHz: 220, DurationMs: 800, Regions: []entity.BodyRegion{entity.RegionChest, entity.RegionArms}},
		scent:   entity.ScentRecipe{Name: "surprise", Intensity: 0.90, DurationSeconds: 90},
		ar:      entity.AROverlay{Kind: "burst", Opacity: 0.90, Particles: 80},
	},
	entity.Disgust: {
		prosody: entity.ProsodyPreset{VoiceID: "normal", Rate: 1.00, Pitch: 0.95, Volume: 0.95},
		haptic:  entity.HapticPattern{Name: "recoil_wave", Intensity: 0.60, FrequencyHz: 90, DurationMs: 1200, Regions: []entity.BodyRegion{entity.RegionStomach, entity.RegionChest}},
		scent:   entity.ScentRecipe{Name: "disgust", Intensity: 0.40, DurationSeconds: 150},
		ar:      entity.AROverlay{Kind: "ripple", Opacity: 0.40, Particles: 25},
	},
	entity.Neutral: {
		prosody: entity.ProsodyPreset{VoiceID: "normal", Rate: 1.00, Pitch: 1.00, Volume: 1.00},
		haptic:  entity.HapticPattern{Name: "subtle_tap", Intensity: 0.30, FrequencyHz: 80, DurationMs: 2000, Regions: []entity.BodyRegion{entity.RegionChest}},
		scent:   entity.ScentRecipe{Name: "neutral", Intensity: 0.30, DurationSeconds: 200},
		ar:      entity.AROverlay{Kind: "ambient", Opacity: 0.30, Particles: 20},
	},
}

// Tables is the static v1 mapping table, exposed as a value so callers never
// mutate the baseline by reference.
type Tables struct{}

func New() *Tables { return &Tables{} }

func resolve(label entity.EmotionLabel) (baseline, entity.EmotionLabel) {
	if !entity.IsKnownEmotionLabel(label) {
		label = entity.Neutral
	}
	b, ok := v1[label]
	if !ok {
		b = v1[entity.Neutral]
		label = entity.Neutral
	}
	return b, label
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scaleFactor implements "table_value * max(0.2, reading.intensity)".
func scaleFactor(intensity float64) float64 {
	if intensity < 0.2 {
		return 0.2
	}
	return intensity
}

func (t *Tables) Prosody(label entity.EmotionLabel) entity.ProsodyPreset {
	b, _ := resolve(label)
	return b.prosody
}

func (t *Tables) Haptic(label entity.EmotionLabel, intensity float64) entity.HapticPattern {
	b, _ := resolve(label)
	f := scaleFactor(intensity)
	p := b.haptic
	p.Intensity = clamp(p.Intensity*f, 0, 1)
	return p
}

func (t *Tables) Scent(label entity.EmotionLabel, intensity float64) entity.ScentRecipe {
	b, _ := resolve(label)
	f := scaleFactor(intensity)
	s := b.scent
	s.Intensity = clamp(s.Intensity*f, 0, 1)
	return s
}

func (t *Tables) AR(label entity.EmotionLabel, intensity float64) entity.AROverlay {
	b, _ := resolve(label)
	f := scaleFactor(intensity)
	a := b.ar
	a.Opacity = clamp(a.Opacity*f, 0, 1)
	return a
}

// HapticPatternNames lists every predefined pattern name, for GET /haptic_patterns.
func HapticPatternNames() []string {
	names := make([]string, 0, len(v1))
	for _, label := range entity.AllEmotionLabels {
		names = append(names, v1[label].haptic.Name)
	}
	return names
}

// HapticPatternByName looks up the baseline haptic pattern carrying a given
// predefined name (used by /generate_haptics?pattern_name=).
func HapticPatternByName(name string) (entity.HapticPattern, bool) {
	for _, label := range entity.AllEmotionLabels {
		if v1[label].haptic.Name == name {
			return v1[label].haptic, true
		}
	}
	return entity.HapticPattern{}, false
}
