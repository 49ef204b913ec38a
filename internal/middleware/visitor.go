package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// VisitorCookie is the cookie carrying the anonymous visitor token.
const VisitorCookie = "chronicle_visitor"

// Visitor issues a stable anonymous visitor token so the engagement
// ledger can deduplicate views from readers without an account.
func Visitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := uuid.Parse(c.Cookies(VisitorCookie)); err != nil {
			id := uuid.New()
			c.Cookie(&fiber.Cookie{
				Name:     VisitorCookie,
				Value:    id.String(),
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
			c.Locals("visitorID", id)
		}
		return c.Next()
	}
}

// VisitorID returns the visitor token from the request cookie or, for
// a first visit, the one minted by Visitor in this request.
func VisitorID(c *fiber.Ctx) (uuid.UUID, bool) {
	if id, err := uuid.Parse(c.Cookies(VisitorCookie)); err == nil {
		return id, true
	}
	if id, ok := c.Locals("visitorID").(uuid.UUID); ok {
		return id, true
	}
	return uuid.UUID{}, false
}
