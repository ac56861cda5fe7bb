package controller

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/internal/quota"
	"github.com/modernreader/orchestrator/pkg/mapping"
	"github.com/modernreader/orchestrator/pkg/tts"
)

// IVoiceController wraps the TTS/STT ports (pkg/tts) for the Gateway's
// standalone /api/tts and /api/stt routes.
type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	Synthesize(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
}

type voiceController struct {
	speaker     tts.Port
	transcriber tts.Transcriber
	tables      *mapping.Tables
	readingWPM  float64
	enforcer    *quota.Enforcer
}

func NewVoiceController(speaker tts.Port, transcriber tts.Transcriber, tables *mapping.Tables, readingWPM int, enforcer *quota.Enforcer) IVoiceController {
	return &voiceController{speaker: speaker, transcriber: transcriber, tables: tables, readingWPM: float64(readingWPM), enforcer: enforcer}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	r.Post("/api/tts", serverutils.QuotaMiddleware(c.enforcer, quota.RouteTTS), c.Synthesize)
	r.Post("/api/stt", c.Transcribe)
}

func (c *voiceController) Synthesize(ctx *fiber.Ctx) error {
	var req dto.TTSRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	prosody := c.tables.Prosody(normalizeEmotionLabel(req.Emotion))
	if req.Voice != "" {
		prosody.VoiceID = req.Voice
	}
	if req.Speed > 0 {
		prosody.Rate = req.Speed
	}

	url, err := c.speaker.Synthesize(ctx.Context(), req.Text, prosody)
	if err != nil {
		return apierr.Upstream("tts backend unavailable", err)
	}

	wordCount := len(strings.Fields(req.Text))
	rate := c.readingWPM * prosody.Rate
	if rate <= 0 {
		rate = c.readingWPM
	}
	duration := float64(wordCount) / (rate / 60.0)

	return ctx.JSON(dto.TTSResponse{
		AudioURL: url,
		Duration: duration,
		Format:   "wav",
		Provider: "local-stub",
		Voice:    prosody.VoiceID,
	})
}

func (c *voiceController) Transcribe(ctx *fiber.Ctx) error {
	var req dto.STTRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		return apierr.Invalid("audio_base64 is not valid base64")
	}

	tr, err := c.transcriber.Transcribe(ctx.Context(), audio, req.Language)
	if err != nil {
		return apierr.Upstream("stt backend unavailable", err)
	}

	return ctx.JSON(dto.STTResponse{
		Text:       tr.Text,
		Confidence: tr.Confidence,
		Language:   tr.Language,
		Duration:   tr.DurationS,
		Provider:   tr.Provider,
	})
}
