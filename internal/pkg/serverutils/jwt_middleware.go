// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware accepts either an allowlisted API key (X-API-Key header)
// or a bearer session token signed with jwtSecret; unknown keys and invalid
// tokens both fail closed with unauthorized. The subject used by quota
// enforcement is stashed in ctx.Locals("subject").
func AuthMiddleware(allowedAPIKeys []string, jwtSecret string) fiber.Handler {
	keySet := make(map[string]bool, len(allowedAPIKeys))
	for _, k := range allowedAPIKeys {
		keySet[k] = true
	}

	return func(ctx *fiber.Ctx) error {
		if apiKey := ctx.Get("X-API-Key"); apiKey != "" {
			if !keySet[apiKey] {
				return unauthorized(ctx, "unknown API key")
			}
			ctx.Locals("subject", apiKey)
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(ctx, "missing API key or bearer token")
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(ctx, "invalid session token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(ctx, "invalid session token claims")
		}

		userID, _ := claims["user_id"].(string)
		ctx.Locals("user_id", userID)
		ctx.Locals("subject", userID)
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"kind":    "unauthorized",
		"message": message,
	})
}
