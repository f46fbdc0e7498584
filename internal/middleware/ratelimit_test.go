package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/electricity-record/internal/config"
)

// Logins must still work when Redis is down or not configured.
func TestAuthRateLimitFailsOpenWithoutRedis(t *testing.T) {
	cfg := &config.Config{AuthRateLimit: 5, AuthRateWindow: time.Minute}

	app := fiber.New()
	app.Post("/login", AuthRateLimit(nil, cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected pass-through without redis, got status %d", resp.StatusCode)
		}
	}
}
