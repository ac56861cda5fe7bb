package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/pkg/modelselect"
)

// IModelSelectController exposes the model-tier advisor, independent of any
// of the sensory components; it never runs inference itself.
type IModelSelectController interface {
	RegisterRoutes(r fiber.Router)
	Select(ctx *fiber.Ctx) error
}

type modelSelectController struct{}

func NewModelSelectController() IModelSelectController {
	return &modelSelectController{}
}

func (c *modelSelectController) RegisterRoutes(r fiber.Router) {
	r.Get("/ai/model-select", c.Select)
}

func (c *modelSelectController) Select(ctx *fiber.Ctx) error {
	device := ctx.Query("device")
	memoryMB, _ := strconv.Atoi(ctx.Query("memory_mb"))
	preferQuality, _ := strconv.ParseBool(ctx.Query("prefer_quality"))

	return ctx.JSON(modelselect.Choose(device, memoryMB, preferQuality))
}
