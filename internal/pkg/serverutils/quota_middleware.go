package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modernreader/orchestrator/internal/quota"
)

// QuotaMiddleware consults the burst rate limiter and the route's daily
// counter for the authenticated subject before the handler runs, per the
// Gateway's "decision consulted before the orchestrator runs" contract.
func QuotaMiddleware(enforcer *quota.Enforcer, route quota.Route) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if enforcer == nil {
			return ctx.Next()
		}

		subject, _ := ctx.Locals("subject").(string)
		if subject == "" {
			subject = ctx.IP()
		}

		if err := enforcer.Allow(subject); err != nil {
			return err
		}
		if err := enforcer.ConsumeDaily(ctx.Context(), subject, route); err != nil {
			return err
		}
		return ctx.Next()
	}
}
