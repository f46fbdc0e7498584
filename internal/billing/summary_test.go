package billing

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

	start, end := MonthRange(now, 0)
	if start.Month() != time.March || start.Day() != 1 {
		t.Fatalf("unexpected month start: %v", start)
	}
	if end.Month() != time.March || end.Day() != 31 {
		t.Fatalf("unexpected month end: %v", end)
	}

	prevStart, prevEnd := MonthRange(now, -1)
	if prevStart.Month() != time.February || prevEnd.Day() != 29 {
		t.Fatalf("unexpected previous month range: %v .. %v", prevStart, prevEnd)
	}
}

func TestCurrentMonthAggregates(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	thisMonth := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	lastMonth := time.Date(2024, 2, 20, 9, 0, 0, 0, time.Local)
	older := time.Date(2023, 11, 1, 9, 0, 0, 0, time.Local)

	entries := []Entry{
		{CreatedAt: thisMonth, Units: 50, Amount: 400.00, Status: StatusPaid},
		{CreatedAt: thisMonth, Units: 30, Amount: 240.00, Status: StatusPending},
		{CreatedAt: lastMonth, Units: 70, Amount: 560.00, Status: StatusPaid},
		{CreatedAt: older, Units: 10, Amount: 80.00, Status: StatusOverdue},
	}

	s := CurrentMonth(entries, now)
	if s.Units != 80 {
		t.Fatalf("expected 80 units this month, got %d", s.Units)
	}
	if s.Amount != 640.00 {
		t.Fatalf("expected amount 640.00, got %v", s.Amount)
	}
	if s.Paid != 400.00 {
		t.Fatalf("expected paid 400.00, got %v", s.Paid)
	}
	if s.Unpaid != 240.00 {
		t.Fatalf("expected unpaid 240.00, got %v", s.Unpaid)
	}
	if s.Records != 2 {
		t.Fatalf("expected 2 records this month, got %d", s.Records)
	}
	if s.PreviousUnits != 70 {
		t.Fatalf("expected previous month units 70, got %d", s.PreviousUnits)
	}
}

func TestLifetimeAggregates(t *testing.T) {
	entries := []Entry{
		{Units: 50, Amount: 400.00, Status: StatusPaid},
		{Units: 30, Amount: 240.00, Status: StatusPending},
		{Units: 20, Amount: 160.00, Status: StatusOverdue},
		{Units: 5, Amount: 40.00, Status: StatusCancelled},
	}

	total := Lifetime(entries)
	if total.Units != 105 {
		t.Fatalf("expected 105 units, got %d", total.Units)
	}
	if total.Amount != 840.00 {
		t.Fatalf("expected amount 840.00, got %v", total.Amount)
	}
	if total.Paid != 400.00 {
		t.Fatalf("expected paid 400.00, got %v", total.Paid)
	}
	if total.Unpaid != 440.00 {
		t.Fatalf("expected unpaid 440.00, got %v", total.Unpaid)
	}
	if total.Records != 4 || total.PaidRecords != 1 {
		t.Fatalf("unexpected record counts: records=%d paid=%d", total.Records, total.PaidRecords)
	}
}

func TestLifetimeEmpty(t *testing.T) {
	total := Lifetime(nil)
	if total.Records != 0 || total.Amount != 0 || total.Unpaid != 0 {
		t.Fatalf("expected zero totals, got %+v", total)
	}
}
