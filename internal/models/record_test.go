package models

import (
	"testing"
	"time"

	"github.com/example/electricity-record/internal/billing"
)

func TestRecordBeforeSaveDerivesFields(t *testing.T) {
	record := ElectricityRecord{
		PreviousReading: 100,
		CurrentReading:  150,
		RatePerUnit:     8.0,
		PaymentStatus:   billing.StatusPending,
		// Stale derived values must be overwritten, never trusted.
		UnitsConsumed: 999,
		TotalAmount:   9999,
	}

	if err := record.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.UnitsConsumed != 50 {
		t.Fatalf("expected 50 units, got %d", record.UnitsConsumed)
	}
	if record.TotalAmount != 400.00 {
		t.Fatalf("expected amount 400.00, got %v", record.TotalAmount)
	}
}

func TestRecordBeforeSaveRejectsReadingOrder(t *testing.T) {
	record := ElectricityRecord{
		PreviousReading: 150,
		CurrentReading:  100,
		RatePerUnit:     8.0,
		PaymentStatus:   billing.StatusPending,
	}

	if err := record.BeforeSave(nil); err == nil {
		t.Fatalf("expected error when current < previous")
	}
}

func TestRecordBeforeSaveRejectsUnknownStatus(t *testing.T) {
	record := ElectricityRecord{
		CurrentReading: 10,
		RatePerUnit:    8.0,
		PaymentStatus:  "refunded",
	}

	if err := record.BeforeSave(nil); err == nil {
		t.Fatalf("expected error for unknown payment status")
	}
}

func TestRecordBeforeSaveLeavesStatusAlone(t *testing.T) {
	// Persisting a paid record with a past due date must not flip its state;
	// due-date transitions are an explicit handler action.
	record := ElectricityRecord{
		PreviousReading: 0,
		CurrentReading:  10,
		RatePerUnit:     8.0,
		PaymentStatus:   billing.StatusPaid,
		DueDate:         time.Now().AddDate(0, 0, -30),
	}

	if err := record.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.PaymentStatus != billing.StatusPaid {
		t.Fatalf("expected status untouched, got %s", record.PaymentStatus)
	}
}

func TestRecordBillingEntry(t *testing.T) {
	now := time.Now()
	record := ElectricityRecord{
		BaseModel:     BaseModel{CreatedAt: now},
		UnitsConsumed: 50,
		TotalAmount:   400.00,
		PaymentStatus: billing.StatusPaid,
	}

	entry := record.BillingEntry()
	if entry.Units != 50 || entry.Amount != 400.00 || entry.Status != billing.StatusPaid || !entry.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
