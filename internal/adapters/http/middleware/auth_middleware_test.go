package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/s-puig/ecommerce-demo/internal/config"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/identity"
	"github.com/s-puig/ecommerce-demo/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  5,
			RefreshTokenDays: 2,
		},
	}
}

// newAuthApp builds an app with the token middleware and a probe route that
// reports whether an identity was installed.
func newAuthApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(cfg))
	app.Get("/probe", func(c *fiber.Ctx) error {
		if id, ok := identity.FromContext(c); ok {
			return c.JSON(fiber.Map{"user_id": id.UserID, "role": string(id.Role)})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthenticateNoHeaderProceedsAnonymous(t *testing.T) {
	app := newAuthApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestAuthenticateNonBearerSchemeProceedsAnonymous(t *testing.T) {
	app := newAuthApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestAuthenticateBadTokenProceedsAnonymous(t *testing.T) {
	app := newAuthApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestAuthenticateValidTokenInstallsIdentity(t *testing.T) {
	cfg := testConfig()
	app := newAuthApp(cfg)

	token, err := jwt.GenerateAccessToken(42, "ADMINISTRATOR", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticateReadsCookie(t *testing.T) {
	cfg := testConfig()
	app := newAuthApp(cfg)

	token, err := jwt.GenerateAccessToken(7, "CUSTOMER", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Use(Authenticate(cfg))
	app.Get("/protected", RequireIdentity(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.GenerateAccessToken(1, "CUSTOMER", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleEnforcesRole(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Use(Authenticate(cfg))
	app.Get("/admin", RequireRole(domain.RoleAdministrator), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	customerToken, err := jwt.GenerateAccessToken(1, "CUSTOMER", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateAccessToken(2, "ADMINISTRATOR", cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	// Anonymous
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Wrong role
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Allowed role
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestExpiredTokenProceedsAnonymous(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Use(Authenticate(cfg))
	app.Get("/probe", func(c *fiber.Ctx) error {
		if _, ok := identity.FromContext(c); ok {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	token, err := jwt.GenerateAccessToken(1, "CUSTOMER", cfg.JWT.Secret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
