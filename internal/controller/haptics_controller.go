package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/emotion"
	"github.com/modernreader/orchestrator/pkg/mapping"
)

// IHapticsController serves the haptic mapping table (C3) directly, for
// clients that want a pattern without running a full orchestrator session.
type IHapticsController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	ListPatterns(ctx *fiber.Ctx) error
}

type hapticsController struct {
	tables *mapping.Tables
	engine *emotion.Engine
}

func NewHapticsController(tables *mapping.Tables, engine *emotion.Engine) IHapticsController {
	return &hapticsController{tables: tables, engine: engine}
}

func (c *hapticsController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate_haptics", c.Generate)
	r.Get("/haptic_patterns", c.ListPatterns)
}

func (c *hapticsController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateHapticsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}

	if req.PatternName != "" {
		pattern, ok := mapping.HapticPatternByName(req.PatternName)
		if !ok {
			return apierr.NotFoundf("haptic pattern %q not found", req.PatternName)
		}
		return ctx.JSON(pattern)
	}

	intensity := req.Intensity
	if intensity <= 0 {
		intensity = 0.6
	}

	label := normalizeEmotionLabel(req.Emotion)
	if label == "" {
		if req.Text == "" {
			return apierr.Invalid("one of pattern_name, emotion or text is required")
		}
		reading := c.engine.Predict(ctx.Context(), emotion.Payload{Text: req.Text})
		label = reading.Primary
		intensity = reading.Intensity
	}

	return ctx.JSON(c.tables.Haptic(label, intensity))
}

// emotionSynonyms widens the Gateway's vocabulary beyond the seven closed
// labels C3 resolves against, so a caller saying "excited" still lands on
// the happy-family mapping instead of silently collapsing to neutral.
var emotionSynonyms = map[string]entity.EmotionLabel{
	"excited":    entity.Happy,
	"joyful":     entity.Happy,
	"glad":       entity.Happy,
	"furious":    entity.Angry,
	"mad":        entity.Angry,
	"frightened": entity.Fear,
	"scared":     entity.Fear,
	"depressed":  entity.Sad,
	"unhappy":    entity.Sad,
	"astonished": entity.Surprise,
	"shocked":    entity.Surprise,
	"disgusted":  entity.Disgust,
}

func normalizeEmotionLabel(raw string) entity.EmotionLabel {
	if raw == "" {
		return ""
	}
	if syn, ok := emotionSynonyms[raw]; ok {
		return syn
	}
	return entity.EmotionLabel(raw)
}

func (c *hapticsController) ListPatterns(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HapticPatternsResponse{Patterns: mapping.HapticPatternNames()})
}
