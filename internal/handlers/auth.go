package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/config"
	"github.com/example/electricity-record/internal/middleware"
	"github.com/example/electricity-record/internal/models"
	"github.com/example/electricity-record/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validationFailed(c *fiber.Ctx, errs []fieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "validation failed",
		"code":    "VALIDATION_ERROR",
		"errors":  errs,
	})
}

func userPayload(u *models.User) fiber.Map {
	return fiber.Map{
		"id":           u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"role":         u.Role,
		"meter_number": u.MeterNumber,
		"address":      u.Address,
		"phone":        u.Phone,
		"upi_id":       u.UpiID,
	}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	MeterNumber string `json:"meterNumber"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

func (r *registerRequest) validate() []fieldError {
	var errs []fieldError
	if !utils.ValidName(r.Name) {
		errs = append(errs, fieldError{"name", "name must be between 2 and 50 characters"})
	}
	if !utils.ValidEmail(strings.ToLower(strings.TrimSpace(r.Email))) {
		errs = append(errs, fieldError{"email", "please provide a valid email address"})
	}
	if !utils.ValidPassword(r.Password) {
		errs = append(errs, fieldError{"password", "password must be at least 8 characters with one uppercase letter, one lowercase letter, one number, and one special character"})
	}
	if !utils.ValidMeterNumber(strings.ToUpper(strings.TrimSpace(r.MeterNumber))) {
		errs = append(errs, fieldError{"meterNumber", "meter number must be 6-12 alphanumeric characters"})
	}
	if !utils.ValidAddress(r.Address) {
		errs = append(errs, fieldError{"address", "address must be between 10 and 200 characters"})
	}
	if !utils.ValidPhone(strings.TrimSpace(r.Phone)) {
		errs = append(errs, fieldError{"phone", "please provide a valid phone number"})
	}
	return errs
}

// Register creates a new user account and returns a bearer token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := req.validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	meter := strings.ToUpper(strings.TrimSpace(req.MeterNumber))

	var existing models.User
	if err := h.db.Where("email = ? OR meter_number = ?", email, meter).First(&existing).Error; err == nil {
		field := "email"
		if existing.MeterNumber == meter {
			field = "meter number"
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": field + " already registered",
			"code":    "DUPLICATE_FIELD",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		MeterNumber:  meter,
		Address:      strings.TrimSpace(req.Address),
		Phone:        strings.TrimSpace(req.Phone),
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"data": fiber.Map{
			"token": token,
			"user":  userPayload(&user),
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user, tracking failed attempts and
// enforcing the temporary account lock.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return validationFailed(c, []fieldError{{"email", "email and password are required"}})
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "invalid credentials",
				"code":    "INVALID_CREDENTIALS",
			})
		}
		return err
	}

	if user.IsLocked() {
		remaining := int(time.Until(*user.LockUntil) / time.Second)
		if remaining < 0 {
			remaining = 0
		}
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"success":        false,
			"message":        "account is temporarily locked due to multiple failed login attempts",
			"code":           "ACCOUNT_LOCKED",
			"lock_until":     user.LockUntil,
			"remaining_time": remaining,
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "account is deactivated",
			"code":    "ACCOUNT_DEACTIVATED",
		})
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		if err := h.recordFailedAttempt(&user); err != nil {
			return err
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid credentials",
			"code":    "INVALID_CREDENTIALS",
		})
	}

	now := time.Now()
	updates := map[string]interface{}{"last_login": now}
	if user.LoginAttempts > 0 || user.LockUntil != nil {
		updates["login_attempts"] = 0
		updates["lock_until"] = nil
	}
	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"data": fiber.Map{
			"token": token,
			"user":  userPayload(&user),
		},
	})
}

// recordFailedAttempt increments the failure counter and arms the lock once
// the threshold is reached. An expired lock resets the count to 1.
func (h *AuthHandler) recordFailedAttempt(user *models.User) error {
	updates := map[string]interface{}{}

	if user.LockUntil != nil && user.LockUntil.Before(time.Now()) {
		updates["login_attempts"] = 1
		updates["lock_until"] = nil
	} else {
		attempts := user.LoginAttempts + 1
		updates["login_attempts"] = attempts
		if attempts >= h.cfg.LockThreshold {
			updates["lock_until"] = time.Now().Add(h.cfg.LockDuration)
		}
	}

	return h.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"user": user}})
}

// GetProfile returns the authenticated user profile.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"user": user}})
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	UpiID   *string `json:"upiId"`
}

// UpdateProfile updates self-service profile fields, including the UPI
// payment identifier shown to share-link payers.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var errs []fieldError
	updates := map[string]interface{}{}
	if req.Name != nil {
		if !utils.ValidName(*req.Name) {
			errs = append(errs, fieldError{"name", "name must be between 2 and 50 characters"})
		} else {
			updates["name"] = strings.TrimSpace(*req.Name)
		}
	}
	if req.Address != nil {
		if !utils.ValidAddress(*req.Address) {
			errs = append(errs, fieldError{"address", "address must be between 10 and 200 characters"})
		} else {
			updates["address"] = strings.TrimSpace(*req.Address)
		}
	}
	if req.Phone != nil {
		if !utils.ValidPhone(strings.TrimSpace(*req.Phone)) {
			errs = append(errs, fieldError{"phone", "please provide a valid phone number"})
		} else {
			updates["phone"] = strings.TrimSpace(*req.Phone)
		}
	}
	if req.UpiID != nil {
		trimmed := strings.TrimSpace(*req.UpiID)
		if trimmed != "" && !utils.ValidUpiID(trimmed) {
			errs = append(errs, fieldError{"upiId", "please enter a valid UPI ID (e.g., yourname@paytm)"})
		} else {
			updates["upi_id"] = trimmed
		}
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	if err := h.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return err
	}

	var updated models.User
	if err := h.db.First(&updated, "id = ?", user.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "profile updated successfully",
		"data":    fiber.Map{"user": updated},
	})
}

// Logout acknowledges a stateless logout; token invalidation happens
// client-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "logged out successfully"})
}
