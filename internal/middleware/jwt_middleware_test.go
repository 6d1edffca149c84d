package middleware_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"shop/internal/middleware"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims jwt.MapClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (jwt.MapClaims, error) {
	return s.claims, s.err
}

func newApp(v middleware.TokenValidator) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(v), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": middleware.UserID(c), "role": middleware.Role(c)})
	})
	app.Get("/admin", middleware.AuthRequired(v), middleware.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name   string
		header string
		v      stubValidator
		status int
	}{
		{"missing header", "", stubValidator{}, fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubValidator{}, fiber.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("expired")}, fiber.StatusUnauthorized},
		{"no user claim", "Bearer ok", stubValidator{claims: jwt.MapClaims{}}, fiber.StatusUnauthorized},
		{"valid", "Bearer ok", stubValidator{claims: jwt.MapClaims{"user_id": "u1"}}, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newApp(tt.v).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAdminRequired(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer ok")

	resp, err := newApp(stubValidator{claims: jwt.MapClaims{"user_id": "u1", "role": "customer"}}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer ok")
	resp, err = newApp(stubValidator{claims: jwt.MapClaims{"user_id": "u1", "role": "admin"}}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
