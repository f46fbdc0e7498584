// Command seedadmin creates (or reports) the administrator account so a
// fresh deployment has a working admin login. Credentials come from
// ADMIN_EMAIL / ADMIN_PASSWORD, with development defaults.
package main

import (
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/config"
	"github.com/example/electricity-record/internal/database"
	"github.com/example/electricity-record/internal/models"
	"github.com/example/electricity-record/internal/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	email := getenv("ADMIN_EMAIL", "admin@electricity.local")
	password := getenv("ADMIN_PASSWORD", "Admin@1234")

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("admin account already exists: %s", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to check for admin account: %v", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		MeterNumber:  getenv("ADMIN_METER_NUMBER", "ADMIN000001"),
		Address:      getenv("ADMIN_ADDRESS", "System administrator account"),
		Phone:        getenv("ADMIN_PHONE", "+10000000000"),
		IsActive:     true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}

	log.Printf("admin account created: %s", email)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
