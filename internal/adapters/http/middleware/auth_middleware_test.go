package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ncic-pledge/internal/config"
	"ncic-pledge/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "access-secret"

func newTestApp(t *testing.T, guard fiber.Handler) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(cfg), guard, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":    c.Locals(LocalStaffID),
			"email": c.Locals(LocalEmail),
			"role":  c.Locals(LocalRole),
		})
	})
	return app
}

func token(t *testing.T, role, secret string) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken(7, "hana@example.com", role, secret, 15)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp(t, AnyStaff())

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + token(t, "admin", "other-secret"), want: http.StatusUnauthorized},
		{name: "unknown role claim", header: "Bearer " + token(t, "donor", testSecret), want: http.StatusUnauthorized},
		{name: "bearer header", header: "Bearer " + token(t, "admin", testSecret), want: http.StatusOK},
		{name: "cookie", cookie: token(t, "followUp", testSecret), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	app := newTestApp(t, AnyStaff())

	expired, err := jwt.GenerateAccessToken(7, "hana@example.com", "admin", testSecret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name  string
		guard fiber.Handler
		role  string
		want  int
	}{
		{name: "super admin only allows super admin", guard: SuperAdminOnly(), role: "superAdmin", want: http.StatusOK},
		{name: "super admin only rejects admin", guard: SuperAdminOnly(), role: "admin", want: http.StatusForbidden},
		{name: "admin or above allows admin", guard: AdminOrAbove(), role: "admin", want: http.StatusOK},
		{name: "admin or above rejects follow-up", guard: AdminOrAbove(), role: "followUp", want: http.StatusForbidden},
		{name: "follow-up only rejects super admin", guard: FollowUpOnly(), role: "superAdmin", want: http.StatusForbidden},
		{name: "follow-up only allows follow-up", guard: FollowUpOnly(), role: "followUp", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.guard)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, tt.role, testSecret))

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRoleMiddleware_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", AdminOrAbove(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
