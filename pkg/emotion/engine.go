// Package emotion implements the EmotionEngine component (C2): mapping text,
// image, or audio payloads to an EmotionReading, with lexicon scoring as the
// always-available fallback and optional remote classifiers substituted in
// per spec §4.2. Grounded on the original's camera-detection flow (local
// heuristic when no remote key is configured, "neutral/error" on failure).
package emotion

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/internal/pkg/logger"
)

// Payload is one of {text}, {image_bytes}, {audio_bytes} per §4.2.
type Payload struct {
	Text       string
	ImageBytes []byte
	AudioBytes []byte
}

func (p Payload) hashKey() string {
	h := xxhash.New()
	_, _ = h.Write([]byte(p.Text))
	_, _ = h.Write(p.ImageBytes)
	_, _ = h.Write(p.AudioBytes)
	return fmt.Sprintf("%x", h.Sum64())
}

type Engine struct {
	remoteText RemoteTextClassifier
	vision     VisionClassifierPort
	audio      AudioClassifierPort
	log        logger.ILogger
	memo       *cache.Cache
	now        func() time.Time
}

type Option func(*Engine)

func WithRemoteTextClassifier(c RemoteTextClassifier) Option { return func(e *Engine) { e.remoteText = c } }
func WithVisionClassifier(c VisionClassifierPort) Option     { return func(e *Engine) { e.vision = c } }
func WithAudioClassifier(c AudioClassifierPort) Option       { return func(e *Engine) { e.audio = c } }

func New(log logger.ILogger, opts ...Option) *Engine {
	e := &Engine{
		log:  log,
		memo: cache.New(15*time.Minute, 5*time.Minute),
		now:  time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Predict implements the component contract. It never returns an error:
// unavailable backends yield a clearly-marked degraded reading instead.
func (e *Engine) Predict(ctx context.Context, payload Payload) entity.EmotionReading {
	key := payload.hashKey()
	if cached, ok := e.memo.Get(key); ok {
		return cached.(entity.EmotionReading)
	}

	var reading entity.EmotionReading
	switch {
	case len(payload.ImageBytes) > 0:
		reading = e.predictImage(ctx, payload.ImageBytes)
	case len(payload.AudioBytes) > 0:
		reading = e.predictAudio(ctx, payload.AudioBytes)
	default:
		reading = e.predictText(ctx, payload.Text)
	}

	reading = clampReading(reading)
	e.memo.Set(key, reading, cache.DefaultExpiration)
	return reading
}

func (e *Engine) predictText(ctx context.Context, text string) entity.EmotionReading {
	if e.remoteText != nil {
		reading, err := e.remoteText.Classify(ctx, text)
		if err == nil {
			reading.Source = entity.SourceText
			return reading
		}
		if e.log != nil {
			e.log.Warn("emotion", "remote text classifier failed, falling back to lexicon", map[string]interface{}{"error": err.Error()})
		}
	}

	label, _, confidence := scoreText(text)
	if e.remoteText != nil {
		confidence = min(confidence, 0.5)
	}
	return entity.EmotionReading{
		Primary:    label,
		Intensity:  confidence,
		Secondary:  nil,
		Features:   "lexicon",
		Source:     entity.SourceText,
		Confidence: confidence,
		TsUnix:     e.now().Unix(),
	}
}

func (e *Engine) predictImage(ctx context.Context, img []byte) entity.EmotionReading {
	if e.vision == nil {
		return e.unavailable(entity.SourceImage)
	}
	reading, err := e.vision.Classify(ctx, img)
	if err != nil {
		if e.log != nil {
			e.log.Warn("emotion", "vision classifier failed", map[string]interface{}{"error": err.Error()})
		}
		return e.unavailable(entity.SourceImage)
	}
	reading.Source = entity.SourceImage
	return reading
}

func (e *Engine) predictAudio(ctx context.Context, audio []byte) entity.EmotionReading {
	if e.audio == nil {
		return e.unavailable(entity.SourceAudio)
	}
	reading, err := e.audio.Classify(ctx, audio)
	if err != nil {
		if e.log != nil {
			e.log.Warn("emotion", "audio classifier failed", map[string]interface{}{"error": err.Error()})
		}
		return e.unavailable(entity.SourceAudio)
	}
	reading.Source = entity.SourceAudio
	return reading
}

func (e *Engine) unavailable(source entity.EmotionSource) entity.EmotionReading {
	return entity.EmotionReading{
		Primary:    entity.Neutral,
		Intensity:  0.5,
		Secondary:  nil,
		Features:   "unavailable",
		Source:     source,
		Confidence: 0.0,
		TsUnix:     e.now().Unix(),
	}
}

func clampReading(r entity.EmotionReading) entity.EmotionReading {
	if !entity.IsKnownEmotionLabel(r.Primary) {
		r.Primary = entity.Neutral
	}
	r.Intensity = clamp01(r.Intensity)
	r.Confidence = clamp01(r.Confidence)
	if len(r.Secondary) > 3 {
		r.Secondary = r.Secondary[:3]
	}
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
