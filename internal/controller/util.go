package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// newSessionID mints a fresh orchestrator session id for each /orchestrator/play
// call; the request body carries no session_id, so the Gateway is the source
// of truth for session identity.
func newSessionID(ctx *fiber.Ctx) string {
	return uuid.NewString()
}

// subjectOf returns the authenticated caller's identity, used to scope
// per-user state (preferences, bookmarks, the RAG corpus). AuthMiddleware
// sets "user_id" for a bearer token and "subject" for either auth method.
func subjectOf(ctx *fiber.Ctx) string {
	if uid, ok := ctx.Locals("user_id").(string); ok && uid != "" {
		return uid
	}
	if subj, ok := ctx.Locals("subject").(string); ok {
		return subj
	}
	return ""
}
