package middleware

import (
	"strings"

	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Token issuance is not part of this service; tokens are minted by the
// identity provider and verified here only to resolve the acting user.

// Protected returns a middleware that requires a valid bearer token and
// stores the user ID in Locals("userID").
func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDFromHeader(c, secret)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user ID when a valid bearer token is
// present but lets anonymous requests through. Used on read paths that
// record views for both populations.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := userIDFromHeader(c, secret); err == nil {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}

// UserID returns the authenticated user ID from Locals, or 0.
func UserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

func userIDFromHeader(c *fiber.Ctx, secret string) (uint, error) {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0, models.NewUnauthorizedError("Missing or malformed bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewUnauthorizedError("Unexpected token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}
	sub, ok := claims["user_id"].(float64)
	if !ok || sub <= 0 {
		return 0, models.NewUnauthorizedError("Token missing user_id claim")
	}
	return uint(sub), nil
}
