package controller

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/internal/quota"
	"github.com/modernreader/orchestrator/pkg/emotion"
)

// IEmotionController exposes the EmotionEngine's (C2) image path directly;
// the text path is only reachable internally through the Orchestrator and
// generate_haptics, matching spec.md's external interface list. Its daily
// quota is billed against image_gen: it is the only route that accepts
// client-supplied image bytes.
type IEmotionController interface {
	RegisterRoutes(r fiber.Router)
	DetectEmotion(ctx *fiber.Ctx) error
}

type emotionController struct {
	engine   *emotion.Engine
	enforcer *quota.Enforcer
}

func NewEmotionController(engine *emotion.Engine, enforcer *quota.Enforcer) IEmotionController {
	return &emotionController{engine: engine, enforcer: enforcer}
}

func (c *emotionController) RegisterRoutes(r fiber.Router) {
	r.Post("/api/detect-emotion", serverutils.QuotaMiddleware(c.enforcer, quota.RouteImageGen), c.DetectEmotion)
}

func (c *emotionController) DetectEmotion(ctx *fiber.Ctx) error {
	var req dto.DetectEmotionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	img, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return apierr.Invalid("image_base64 is not valid base64")
	}

	if mimeType, ok := emotion.SniffImage(img); !ok {
		return apierr.Invalid("image_base64 does not decode to a supported image type (got " + mimeType + ")")
	}

	reading := c.engine.Predict(ctx.Context(), emotion.Payload{ImageBytes: img})
	return ctx.JSON(reading)
}
