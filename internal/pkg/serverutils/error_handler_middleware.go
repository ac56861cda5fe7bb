package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/modernreader/orchestrator/internal/apierr"
)

// ErrorHandlerMiddleware centralizes translation of an apierr.Error returned
// by any handler into the {kind, message, hint?, trace_id} response shape.
// Errors that are not an *apierr.Error are wrapped as "internal" so no
// handler needs to construct one for an unexpected failure.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		apiErr, ok := apierr.As(err)
		if !ok {
			apiErr = apierr.Wrap(apierr.Internal, "unhandled error", err)
		}
		apiErr = apiErr.WithTraceID(uuid.NewString())

		return ctx.Status(apiErr.Kind.HTTPStatus()).JSON(apiErr)
	}
}
