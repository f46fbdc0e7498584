package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/billing"
)

// ElectricityRecord is one billing cycle's meter reading. UnitsConsumed and
// TotalAmount are derived from the reading pair and rate; they are
// recomputed on every save and never settable independently.
type ElectricityRecord struct {
	BaseModel
	UserID             uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User               *User          `json:"user,omitempty"`
	CustomerID         *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer           *Customer      `json:"customer,omitempty"`
	MeterNumber        string         `json:"meter_number"`
	PreviousReading    int            `json:"previous_reading"`
	CurrentReading     int            `json:"current_reading"`
	UnitsConsumed      int            `json:"units_consumed"`
	RatePerUnit        float64        `gorm:"default:8" json:"rate_per_unit"`
	TotalAmount        float64        `json:"total_amount"`
	PaymentStatus      billing.Status `gorm:"default:pending;index" json:"payment_status"`
	PaymentDate        *time.Time     `json:"payment_date,omitempty"`
	BillImage          string         `json:"bill_image,omitempty"`
	PaymentScreenshot  string         `json:"payment_screenshot,omitempty"`
	PaymentSubmittedAt *time.Time     `json:"payment_submitted_at,omitempty"`
	DueDate            time.Time      `gorm:"index" json:"due_date"`
	Remarks            string         `json:"remarks,omitempty"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
}

// BeforeSave enforces the reading invariant and keeps the derived fields
// consistent no matter which code path persists the record. Status
// transitions are driven by the handlers, not here: persisting a record
// must never flip a state the owner set explicitly.
func (r *ElectricityRecord) BeforeSave(tx *gorm.DB) error {
	if err := billing.ValidateReadings(r.PreviousReading, r.CurrentReading); err != nil {
		return err
	}
	if r.PaymentStatus != "" && !billing.ValidStatus(r.PaymentStatus) {
		return fmt.Errorf("invalid payment status %q", r.PaymentStatus)
	}
	r.UnitsConsumed = billing.ComputeUnits(r.PreviousReading, r.CurrentReading)
	r.TotalAmount = billing.ComputeAmount(r.UnitsConsumed, r.RatePerUnit)
	return nil
}

// BillingEntry projects the record into the aggregation input type.
func (r *ElectricityRecord) BillingEntry() billing.Entry {
	return billing.Entry{
		CreatedAt: r.CreatedAt,
		Units:     r.UnitsConsumed,
		Amount:    r.TotalAmount,
		Status:    r.PaymentStatus,
	}
}
