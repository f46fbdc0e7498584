package billing

import "time"

// Status is the payment state of one billing record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the four reachable states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s is exempt from automatic due-date transitions.
func Terminal(s Status) bool {
	return s == StatusPaid || s == StatusCancelled
}

// InitialStatus picks the creation-time state for a record whose status was
// not supplied explicitly: overdue when the due date already passed,
// pending otherwise.
func InitialStatus(dueDate, now time.Time) Status {
	if dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// ApplyDueDate re-evaluates a record's state after its due date changed.
// Paid and cancelled records are never overridden.
func ApplyDueDate(current Status, dueDate, now time.Time) Status {
	if Terminal(current) {
		return current
	}
	if dueDate.Before(now) {
		return StatusOverdue
	}
	return current
}
