package server

import (
	"errors"
	"net/http/httptest"
	"testing"

	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 20, wantOffset: 0},
		{name: "explicit values", query: "?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "limit clamped", query: "?limit=5000", wantLimit: 100, wantOffset: 0},
		{name: "negative offset reset", query: "?offset=-3", wantLimit: 20, wantOffset: 0},
		{name: "zero limit uses default", query: "?limit=0", wantLimit: 20, wantOffset: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, 20)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.wantLimit, got.Limit)
			assert.Equal(t, tc.wantOffset, got.Offset)
		})
	}
}

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: models.NewValidationError("bad"), want: fiber.StatusBadRequest},
		{name: "unauthorized", err: models.NewUnauthorizedError("no"), want: fiber.StatusForbidden},
		{name: "not found", err: models.NewNotFoundError("Post", 1), want: fiber.StatusNotFound},
		{name: "conflict", err: models.NewConflictError("dup", nil), want: fiber.StatusConflict},
		{name: "invalid state", err: models.NewInvalidStateError("nope"), want: fiber.StatusUnprocessableEntity},
		{name: "internal", err: models.NewInternalError(errors.New("boom")), want: fiber.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), want: fiber.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}
