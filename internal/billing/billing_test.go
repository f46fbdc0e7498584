package billing

import (
	"testing"
	"time"
)

func TestComputeUnits(t *testing.T) {
	if got := ComputeUnits(100, 150); got != 50 {
		t.Fatalf("expected 50 units, got %d", got)
	}
	if got := ComputeUnits(0, 0); got != 0 {
		t.Fatalf("expected 0 units for equal readings, got %d", got)
	}
}

func TestComputeAmountScenario(t *testing.T) {
	// previous=100, current=150, rate=8.00 -> units=50, amount=400.00
	units := ComputeUnits(100, 150)
	if got := ComputeAmount(units, 8.0); got != 400.00 {
		t.Fatalf("expected amount 400.00, got %v", got)
	}
}

func TestComputeAmountRoundsHalfUpAtCent(t *testing.T) {
	// 3 * 0.125 = 0.375 -> 0.38
	if got := ComputeAmount(3, 0.125); got != 0.38 {
		t.Fatalf("expected 0.38, got %v", got)
	}
	// 7 * 1.115 = 7.805 -> 7.81
	if got := ComputeAmount(7, 1.115); got != 7.81 {
		t.Fatalf("expected 7.81, got %v", got)
	}
	if got := ComputeAmount(0, 999); got != 0 {
		t.Fatalf("expected 0 for zero units, got %v", got)
	}
}

func TestValidateReadings(t *testing.T) {
	if err := ValidateReadings(100, 150); err != nil {
		t.Fatalf("expected valid readings, got %v", err)
	}
	if err := ValidateReadings(100, 100); err != nil {
		t.Fatalf("expected equal readings accepted, got %v", err)
	}
	if err := ValidateReadings(150, 100); err != ErrReadingOrder {
		t.Fatalf("expected ErrReadingOrder, got %v", err)
	}
	if err := ValidateReadings(-1, 100); err != ErrNegativeReading {
		t.Fatalf("expected ErrNegativeReading, got %v", err)
	}
	if err := ValidateReadings(0, -5); err != ErrNegativeReading {
		t.Fatalf("expected ErrNegativeReading, got %v", err)
	}
}

func TestValidateRate(t *testing.T) {
	for _, rate := range []float64{0.01, 8.0, 1000} {
		if err := ValidateRate(rate); err != nil {
			t.Fatalf("expected rate %v accepted, got %v", rate, err)
		}
	}
	for _, rate := range []float64{0, 0.001, -1, 1000.01} {
		if err := ValidateRate(rate); err == nil {
			t.Fatalf("expected rate %v rejected", rate)
		}
	}
}

func TestCompute(t *testing.T) {
	units, amount, err := Compute(100, 150, 8.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units != 50 || amount != 400.00 {
		t.Fatalf("expected units=50 amount=400.00, got units=%d amount=%v", units, amount)
	}

	if _, _, err := Compute(150, 100, 8.0); err == nil {
		t.Fatalf("expected error when current < previous")
	}
	if _, _, err := Compute(100, 150, 0); err == nil {
		t.Fatalf("expected error for out-of-range rate")
	}
}

func TestValidateDueDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

	if err := ValidateDueDate(now, now); err != nil {
		t.Fatalf("expected today accepted, got %v", err)
	}
	// Earlier on the same day still counts as today.
	if err := ValidateDueDate(now.Add(-10*time.Hour), now); err != nil {
		t.Fatalf("expected same-day due date accepted, got %v", err)
	}
	if err := ValidateDueDate(now.AddDate(0, 0, 7), now); err != nil {
		t.Fatalf("expected future due date accepted, got %v", err)
	}
	if err := ValidateDueDate(now.AddDate(0, 0, -1), now); err == nil {
		t.Fatalf("expected past due date rejected")
	}
}
