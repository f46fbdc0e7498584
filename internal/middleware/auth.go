package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/config"
	"github.com/example/electricity-record/internal/models"
	"github.com/example/electricity-record/internal/utils"
)

const userContextKey = "currentUser"

func authError(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"code":    code,
	})
}

// AuthMiddleware validates bearer JWTs, loads the account and rejects
// deactivated or locked users. Failures carry machine-readable codes.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return authError(c, fiber.StatusUnauthorized, "access denied, no authorization token provided", "NO_TOKEN")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return authError(c, fiber.StatusUnauthorized, "access denied, invalid token format", "INVALID_TOKEN_FORMAT")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return authError(c, fiber.StatusUnauthorized, "access denied, token has expired", "TOKEN_EXPIRED")
			}
			return authError(c, fiber.StatusUnauthorized, "access denied, invalid token", "INVALID_TOKEN")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return authError(c, fiber.StatusUnauthorized, "access denied, user not found", "USER_NOT_FOUND")
			}
			return err
		}

		if !user.IsActive {
			return authError(c, fiber.StatusUnauthorized, "access denied, account is deactivated", "ACCOUNT_DEACTIVATED")
		}
		if user.IsLocked() {
			return authError(c, fiber.StatusLocked, "access denied, account is temporarily locked", "ACCOUNT_LOCKED")
		}

		c.Locals(userContextKey, &user)
		return c.Next()
	}
}

// AdminMiddleware gates a route group to admin accounts. It must run after
// AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetCurrentUser(c)
		if !ok {
			return authError(c, fiber.StatusUnauthorized, "unauthorized", "NO_TOKEN")
		}
		if user.Role != models.RoleAdmin {
			return authError(c, fiber.StatusForbidden, "access denied, admin privileges required", "ADMIN_ACCESS_DENIED")
		}
		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from context.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return nil, false
	}

	if user, ok := value.(*models.User); ok {
		return user, true
	}

	return nil, false
}
