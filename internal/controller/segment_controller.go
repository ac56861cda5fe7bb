package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/pkg/textseg"
)

// ISegmentController exposes the Segmenter (C1) standalone, independent of
// any orchestrator session, for clients that only want segmentation.
type ISegmentController interface {
	RegisterRoutes(r fiber.Router)
	SegmentText(ctx *fiber.Ctx) error
}

type segmentController struct {
	readingWPM    int
	maxChunkChars int
}

func NewSegmentController(readingWPM, maxChunkChars int) ISegmentController {
	return &segmentController{readingWPM: readingWPM, maxChunkChars: maxChunkChars}
}

func (c *segmentController) RegisterRoutes(r fiber.Router) {
	r.Post("/segment_text", c.SegmentText)
}

// normalizeStrategy accepts both the contract's singular strategy names and
// the plural forms seen in client requests, defaulting to adaptive.
func normalizeStrategy(s string) textseg.Strategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sentence", "sentences":
		return textseg.StrategySentence
	case "paragraph", "paragraphs":
		return textseg.StrategyParagraph
	case "adaptive", "":
		return textseg.StrategyAdaptive
	default:
		return textseg.StrategyAdaptive
	}
}

func (c *segmentController) SegmentText(ctx *fiber.Ctx) error {
	var req dto.SegmentTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	strategy := normalizeStrategy(req.Strategy)

	result := textseg.Segment(req.Text, strategy, c.maxChunkChars, c.readingWPM)

	return ctx.JSON(dto.SegmentTextResponse{
		Segments:      result.Segments,
		TotalSegments: len(result.Segments),
		TotalLength:   len(req.Text),
		StrategyUsed:  string(result.StrategyUsed),
		Metadata: dto.SegmentTextMetadata{
			LeadingSeparator: result.LeadingSeparator,
			Warnings:         result.Warnings,
		},
	})
}
