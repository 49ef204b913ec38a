package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitorApp(capture *uuid.UUID, ok *bool) *fiber.App {
	app := fiber.New()
	app.Get("/", Visitor(), func(c *fiber.Ctx) error {
		*capture, *ok = VisitorID(c)
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestVisitor_MintsCookieOnFirstVisit(t *testing.T) {
	var id uuid.UUID
	var ok bool
	app := visitorApp(&id, &ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The handler sees the freshly minted token on the same request.
	assert.True(t, ok)
	assert.NotEqual(t, uuid.UUID{}, id)

	var cookieValue string
	for _, c := range resp.Cookies() {
		if c.Name == VisitorCookie {
			cookieValue = c.Value
		}
	}
	require.NotEmpty(t, cookieValue)
	parsed, err := uuid.Parse(cookieValue)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestVisitor_KeepsExistingToken(t *testing.T) {
	var id uuid.UUID
	var ok bool
	app := visitorApp(&id, &ok)

	existing := uuid.New()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", VisitorCookie+"="+existing.String())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.True(t, ok)
	assert.Equal(t, existing, id)

	for _, c := range resp.Cookies() {
		assert.NotEqual(t, VisitorCookie, c.Name, "no replacement cookie should be set")
	}
}

func TestVisitor_ReplacesGarbageToken(t *testing.T) {
	var id uuid.UUID
	var ok bool
	app := visitorApp(&id, &ok)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", VisitorCookie+"=not-a-uuid")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.True(t, ok)
	assert.NotEqual(t, uuid.UUID{}, id)
}
