package middleware

import (
	"errors"
	"strings"

	"cafechain/internal/config"
	"cafechain/internal/pkg/jwt"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware requires an operator bearer token on console routes.
// In dev with no secret configured every request passes.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.AuthEnabled() {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Operator token required")
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwt.ValidateOperatorToken(token, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Operator token expired")
			}
			return response.Unauthorized(c, "Invalid operator token")
		}

		if claims.Variant != "" && claims.Variant != cfg.AppVariant {
			return response.Forbidden(c, "Token was issued for another app variant")
		}

		c.Locals("operatorID", claims.OperatorID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
