package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/apierr"
	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/pkg/memory"
)

const defaultRAGTopK = 5

// IRAGController exposes MemoryStore's RAG sub-store (C4) for upsert/query/
// list/delete, scoped to the authenticated subject.
type IRAGController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Upsert(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type ragController struct {
	mem *memory.MemoryStore
}

func NewRAGController(mem *memory.MemoryStore) IRAGController {
	return &ragController{mem: mem}
}

func (c *ragController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rag")
	h.Get("/query", c.Query)
	h.Post("/upsert", c.Upsert)
	h.Get("/list", c.List)
	h.Delete("/delete", c.Delete)
}

func (c *ragController) Query(ctx *fiber.Ctx) error {
	q := ctx.Query("q")
	if q == "" {
		return apierr.Invalid("q is required")
	}

	topK := defaultRAGTopK
	if raw := ctx.Query("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apierr.Invalid("top_k must be an integer")
		}
		topK = n
	}

	results, err := c.mem.RAG.Query(ctx.Context(), subjectOf(ctx), q, topK)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"results": results})
}

func (c *ragController) Upsert(ctx *fiber.Ctx) error {
	var req dto.RAGUpsertRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	doc := entity.RAGDoc{DocID: req.DocID, Text: req.Text, Meta: req.Meta}
	if err := c.mem.RAG.Upsert(ctx.Context(), subjectOf(ctx), doc); err != nil {
		return apierr.Wrap(apierr.Internal, "upserting document", err)
	}
	return ctx.JSON(fiber.Map{"doc_id": req.DocID, "status": "upserted"})
}

func (c *ragController) List(ctx *fiber.Ctx) error {
	docs, err := c.mem.RAG.List(ctx.Context(), subjectOf(ctx))
	if err != nil {
		return apierr.Wrap(apierr.Internal, "listing documents", err)
	}
	return ctx.JSON(dto.RAGListResponse{Docs: docs})
}

func (c *ragController) Delete(ctx *fiber.Ctx) error {
	docID := ctx.Query("doc_id")
	if docID == "" {
		return apierr.Invalid("doc_id is required")
	}
	if err := c.mem.RAG.Delete(ctx.Context(), subjectOf(ctx), docID); err != nil {
		return apierr.Wrap(apierr.Internal, "deleting document", err)
	}
	return ctx.JSON(fiber.Map{"doc_id": docID, "status": "deleted"})
}
