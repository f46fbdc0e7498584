package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a billing account owner.
type User struct {
	BaseModel
	Name          string     `json:"name"`
	Email         string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash  string     `json:"-"`
	Role          string     `gorm:"default:user" json:"role"`
	MeterNumber   string     `gorm:"uniqueIndex" json:"meter_number"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	UpiID         string     `json:"upi_id"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`
}

// IsLocked reports whether the account is under a failed-login lock.
func (u *User) IsLocked() bool {
	return u.LockUntil != nil && u.LockUntil.After(time.Now())
}

// BeforeSave normalizes unique identifiers.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.MeterNumber = strings.ToUpper(strings.TrimSpace(u.MeterNumber))
	return nil
}
