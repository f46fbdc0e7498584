package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a sub-account a user manages on behalf of a third party.
// Meter numbers are unique per owner, not globally; a soft-deleted
// customer keeps its rows so historical records stay resolvable.
type Customer struct {
	BaseModel
	AddedByID   uuid.UUID `gorm:"type:uuid;index:idx_customer_owner_meter,unique" json:"added_by_id"`
	AddedBy     *User     `gorm:"foreignKey:AddedByID" json:"added_by,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	MeterNumber string    `gorm:"index:idx_customer_owner_meter,unique" json:"meter_number"`
	Address     string    `json:"address"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	ShareToken  *string   `gorm:"uniqueIndex" json:"-"`
}

// BeforeSave normalizes the meter number.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	c.MeterNumber = strings.ToUpper(strings.TrimSpace(c.MeterNumber))
	if c.Email != "" {
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	}
	return nil
}
