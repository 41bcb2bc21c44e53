package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(secret), func(c *fiber.Ctx) error {
		caller, err := CallerFrom(c)
		if err != nil {
			return err
		}
		return c.SendString(caller.Role + ":" + caller.ID.String())
	})
	app.Get("/tutor", Protected(secret), TutorRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func tokenFor(t *testing.T, role string, ttl time.Duration) (string, uuid.UUID) {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: "a@example.com", Role: role}
	token, err := GenerateToken(secret, user, ttl)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token, user.ID
}

func TestProtectedRoutes(t *testing.T) {
	app := newApp()
	studentToken, _ := tokenFor(t, models.RoleStudent, time.Hour)
	tutorToken, _ := tokenFor(t, models.RoleTutor, time.Hour)
	expiredToken, _ := tokenFor(t, models.RoleTutor, -time.Hour)

	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing token", "/me", "", fiber.StatusBadRequest},
		{"expired token", "/me", expiredToken, fiber.StatusUnauthorized},
		{"valid token", "/me", studentToken, fiber.StatusOK},
		{"student on tutor route", "/tutor", studentToken, fiber.StatusForbidden},
		{"tutor on tutor route", "/tutor", tutorToken, fiber.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestParseToken(t *testing.T) {
	token, id := tokenFor(t, models.RoleStudent, time.Hour)

	caller, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if caller.ID != id || caller.Role != models.RoleStudent {
		t.Fatalf("unexpected caller %+v", caller)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatalf("expected signature error")
	}
}
