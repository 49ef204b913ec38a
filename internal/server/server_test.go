package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chronicle/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupMockDB(t)

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: testSecret,
		DBDriver:  "postgres",
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, mock
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestServer_LivenessCheck(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestServer_ProtectedRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPut, "/api/users/me"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/posts/1/comments"},
		{http.MethodPost, "/api/users/2/follow"},
		{http.MethodDelete, "/api/users/2/follow"},
		{http.MethodGet, "/api/moderation/pending"},
		{http.MethodPost, "/api/moderation/posts/1/approve"},
		{http.MethodPost, "/api/moderation/posts/1/revoke"},
	}

	for _, r := range routes {
		r := r
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestServer_RejectsMalformedToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestServer_GetMyProfile(t *testing.T) {
	app, mock := newTestApp(t)

	rows := sqlmock.NewRows([]string{"id", "email", "display_name", "is_moderator"}).
		AddRow(3, "alice@example.com", "Alice", false)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", bearerToken(t, 3))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_InvalidIDParamIsBadRequest(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/abc/followers", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
