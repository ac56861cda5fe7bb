package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/pkg/device"
)

// IBroadcastController fans one emotion reading out to a fixed device set
// via the Broadcaster (C5), independent of any orchestrator session, and is
// also the Gateway seam devices register through (§4.5 "Devices register
// through the Gateway").
type IBroadcastController interface {
	RegisterRoutes(r fiber.Router)
	Broadcast(ctx *fiber.Ctx) error
	RegisterDevice(ctx *fiber.Ctx) error
}

type broadcastController struct {
	registry    *device.Registry
	broadcaster *device.Broadcaster
}

func NewBroadcastController(registry *device.Registry, broadcaster *device.Broadcaster) IBroadcastController {
	return &broadcastController{registry: registry, broadcaster: broadcaster}
}

func (c *broadcastController) RegisterRoutes(r fiber.Router) {
	r.Post("/api/broadcast-to-devices", c.Broadcast)
	r.Post("/devices/register", c.RegisterDevice)
}

// RegisterDevice adds or refreshes a device's registry entry and, when the
// device supplied an address, binds the Gateway's built-in HTTP DevicePort
// so Fan-out has a live adapter to dispatch through.
func (c *broadcastController) RegisterDevice(ctx *fiber.Ctx) error {
	var req dto.RegisterDeviceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	caps := make(map[entity.Capability]bool, len(req.Capabilities))
	for k, v := range req.Capabilities {
		caps[entity.Capability(k)] = v
	}

	desc, changed := c.registry.Register(req.DeviceID, entity.DeviceClass(req.Class), caps, req.Addr)

	if req.Addr != "" {
		c.broadcaster.Bind(req.DeviceID, device.NewHTTPPort(req.Addr))
	}

	return ctx.JSON(dto.RegisterDeviceResponse{Device: desc, Changed: changed})
}

func (c *broadcastController) Broadcast(ctx *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	reading := entity.EmotionReading{
		Primary:   normalizeEmotionLabel(req.Emotion),
		Intensity: req.Intensity,
		Source:    entity.SourceText,
		TsUnix:    time.Now().Unix(),
	}

	results := c.broadcaster.Broadcast(ctx.Context(), reading, device.ContentRefs{
		Text:   req.Content.Text,
		Images: req.Content.Images,
	}, req.Devices)

	return ctx.JSON(dto.BroadcastResponse{
		Devices:   results,
		Emotion:   req.Emotion,
		Intensity: req.Intensity,
		Timestamp: reading.TsUnix,
	})
}
