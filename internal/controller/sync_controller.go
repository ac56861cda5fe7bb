package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/pkg/sync"
)

// ISyncController serves the content-addressed manifest, individual
// whitelisted files, and the static feature-flag document (C7).
type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	Manifest(ctx *fiber.Ctx) error
	File(ctx *fiber.Ctx) error
	Features(ctx *fiber.Ctx) error
}

type syncController struct {
	svc *sync.Service
}

func NewSyncController(svc *sync.Service) ISyncController {
	return &syncController{svc: svc}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sync")
	h.Get("/manifest", c.Manifest)
	h.Get("/file", c.File)
	h.Get("/features", c.Features)
}

func (c *syncController) Manifest(ctx *fiber.Ctx) error {
	m, err := c.svc.GetManifest()
	if err != nil {
		return err
	}

	ctx.Set("ETag", m.ETag)
	if match := ctx.Get("If-None-Match"); match != "" && match == m.ETag {
		return ctx.SendStatus(fiber.StatusNotModified)
	}
	return ctx.JSON(m)
}

func (c *syncController) File(ctx *fiber.Ctx) error {
	path := ctx.Query("path")
	if path == "" {
		return apierr.Invalid("path is required")
	}

	fc, err := c.svc.GetFile(path)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.FileResponse{Path: fc.Path, Content: fc.Content, SHA256: fc.SHA256})
}

// Features reports the sensory modalities and client platforms this
// deployment supports, so a client can decide which controls to render
// before it ever calls /orchestrator/play.
func (c *syncController) Features(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.FeaturesResponse{
		Haptics:   true,
		Scent:     true,
		AR:        true,
		TTS:       true,
		STT:       true,
		Platforms: []string{"ios", "android", "web", "watch", "ar_glasses"},
	})
}
