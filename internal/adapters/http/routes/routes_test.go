package routes_test

import (
	"net/http"
	"testing"

	"cityguard/internal/adapters/http/routes"
	"cityguard/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Registration-only app. Handlers that would touch the database are
// exercised with inputs rejected before any query runs.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test_secret",
			RefreshSecret:    "test_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Upload: config.UploadConfig{
			Dir:       t.TempDir(),
			PublicURL: "/uploads",
		},
	}

	app := fiber.New()
	routes.Setup(app, nil, nil, cfg)
	return app
}

func TestMatchingDonorsRouteIsPublic(t *testing.T) {
	app := newTestApp(t)

	// No Authorization header. A bad request id keeps the handler off the
	// database, so anything but 401 proves the route skips auth.
	req, err := http.NewRequest(http.MethodGet, "/api/blood-donors/matching/abc", nil)
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDonorAdminListRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, "/api/blood-donors/", nil)
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
