package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/internal/quota"
	"github.com/modernreader/orchestrator/pkg/orchestrator"
)

// IOrchestratorController exposes the play/pause/seek/summary surface (C6)
// over HTTP; a fresh session id is minted server-side on every play, since
// the play request carries none.
type IOrchestratorController interface {
	RegisterRoutes(r fiber.Router)
	Play(ctx *fiber.Ctx) error
	Pause(ctx *fiber.Ctx) error
	Seek(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
}

type orchestratorController struct {
	orch     *orchestrator.Orchestrator
	enforcer *quota.Enforcer
}

func NewOrchestratorController(orch *orchestrator.Orchestrator, enforcer *quota.Enforcer) IOrchestratorController {
	return &orchestratorController{orch: orch, enforcer: enforcer}
}

func (c *orchestratorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/orchestrator")
	h.Post("/play", serverutils.QuotaMiddleware(c.enforcer, quota.RoutePlay), c.Play)
	h.Post("/pause", c.Pause)
	h.Post("/seek", c.Seek)
	h.Get("/summary", c.Summary)
}

func (c *orchestratorController) Play(ctx *fiber.Ctx) error {
	var req dto.PlayRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID := newSessionID(ctx)
	userID := req.UserID
	if userID == "" {
		userID, _ = ctx.Locals("user_id").(string)
	}

	plan, err := c.orch.Play(ctx.Context(), sessionID, userID, req.Text, normalizeStrategy(req.Strategy))
	if err != nil {
		return err
	}

	return ctx.JSON(dto.PlayResponse{
		SessionID:   plan.SessionID,
		PlaybackURL: plan.PlaybackURL,
		Metadata: dto.PlayMetadata{
			Segments:      plan.Segments,
			Emotion:       plan.Emotion,
			Prosody:       plan.Prosody,
			HapticEvents:  plan.HapticEvents,
			ScentEvents:   plan.ScentEvents,
			AREvents:      plan.AREvents,
			TotalDuration: plan.DurationTotal,
		},
	})
}

func (c *orchestratorController) Pause(ctx *fiber.Ctx) error {
	var req dto.PauseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	s, err := c.orch.Pause(req.SessionID)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.PauseResponse{Status: "paused", CurrentIndex: s.CurrentIndex, Playing: s.Playing})
}

func (c *orchestratorController) Seek(ctx *fiber.Ctx) error {
	var req dto.SeekRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	s, err := c.orch.Seek(req.SessionID, req.SegmentIndex)
	if err != nil {
		return err
	}

	seg := s.Segments[s.CurrentIndex]
	return ctx.JSON(dto.SeekResponse{
		Status:          "seeked",
		CurrentIndex:    s.CurrentIndex,
		SegmentText:     seg.Text,
		SegmentDuration: seg.EstDurationSeconds,
	})
}

func (c *orchestratorController) Summary(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		return apierr.Invalid("session_id is required")
	}

	s, err := c.orch.Summary(sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.SummaryResponse{
		Summary:         s.Text,
		TotalSegments:   s.TotalSegments,
		TotalHighlights: s.TotalHighlights,
		CurrentPosition: s.CurrentIndex,
		Playing:         s.Playing,
		Emotion:         s.LastEmotion,
	})
}
