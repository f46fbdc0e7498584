package billing

import (
	"testing"
	"time"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusOverdue, StatusCancelled} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q valid", s)
		}
	}
	for _, s := range []Status{"", "unpaid", "PAID", "done"} {
		if ValidStatus(s) {
			t.Fatalf("expected %q invalid", s)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local)

	// Due 2024-01-01, created 2024-01-02 -> overdue.
	if got := InitialStatus(now.AddDate(0, 0, -1), now); got != StatusOverdue {
		t.Fatalf("expected overdue for past due date, got %s", got)
	}
	if got := InitialStatus(now.AddDate(0, 0, 7), now); got != StatusPending {
		t.Fatalf("expected pending for future due date, got %s", got)
	}
}

func TestApplyDueDateAutomaticOverdue(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	if got := ApplyDueDate(StatusPending, past, now); got != StatusOverdue {
		t.Fatalf("expected pending -> overdue, got %s", got)
	}
	if got := ApplyDueDate(StatusPending, future, now); got != StatusPending {
		t.Fatalf("expected pending unchanged for future due date, got %s", got)
	}
	if got := ApplyDueDate(StatusOverdue, future, now); got != StatusOverdue {
		t.Fatalf("expected overdue unchanged, got %s", got)
	}
}

func TestApplyDueDateNeverOverridesTerminalStates(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -30)

	// Once marked paid, editing the due date to the past must not flip the
	// record back to overdue.
	if got := ApplyDueDate(StatusPaid, past, now); got != StatusPaid {
		t.Fatalf("expected paid to stay paid, got %s", got)
	}
	if got := ApplyDueDate(StatusCancelled, past, now); got != StatusCancelled {
		t.Fatalf("expected cancelled to stay cancelled, got %s", got)
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusPaid) || !Terminal(StatusCancelled) {
		t.Fatalf("expected paid and cancelled terminal")
	}
	if Terminal(StatusPending) || Terminal(StatusOverdue) {
		t.Fatalf("expected pending and overdue non-terminal")
	}
}
