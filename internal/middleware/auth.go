package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"gamehub/topup-service/internal/auth"
)

// TokenValidator is satisfied by *auth.Validator.
type TokenValidator interface {
	Parse(token string) (*auth.Claims, error)
	FromHeader(header string) (*auth.Claims, error)
}

func RequireAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := validator.FromHeader(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		setClaims(c, claims)
		return c.Next()
	}
}

// UpgradeWS authenticates a websocket upgrade. Mobile clients cannot set
// headers on the upgrade, so the token may also come in the query string.
func UpgradeWS(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		var (
			claims *auth.Claims
			err    error
		)
		if token := strings.TrimSpace(c.Query("token")); token != "" {
			claims, err = validator.Parse(token)
		} else {
			claims, err = validator.FromHeader(c.Get("Authorization"))
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid token"})
		}
		setClaims(c, claims)
		return c.Next()
	}
}

func setClaims(c *fiber.Ctx, claims *auth.Claims) {
	c.Locals("userId", claims.UserID)
	c.Locals("role", claims.Role)
}
