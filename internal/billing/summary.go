package billing

import "time"

// Entry is the billing view of one persisted record, enough to aggregate
// without pulling in the storage types.
type Entry struct {
	CreatedAt time.Time
	Units     int
	Amount    float64
	Status    Status
}

// MonthSummary aggregates the records of one calendar month.
// PreviousUnits carries the prior month's consumption for trend display.
type MonthSummary struct {
	Units         int     `json:"units"`
	PreviousUnits int     `json:"previousUnits"`
	Amount        float64 `json:"amount"`
	Paid          float64 `json:"paid"`
	Unpaid        float64 `json:"unpaid"`
	Records       int     `json:"records"`
}

// Totals aggregates an unfiltered record set.
type Totals struct {
	Units       int     `json:"units"`
	Amount      float64 `json:"amount"`
	Paid        float64 `json:"paid"`
	Unpaid      float64 `json:"unpaid"`
	PaidRecords int     `json:"paidRecords"`
	Records     int     `json:"records"`
}

// MonthRange returns the inclusive bounds of the calendar month that is
// offset months away from now, in now's location.
func MonthRange(now time.Time, offset int) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Lifetime sums the whole entry set. Monetary sums add the already-rounded
// per-record amounts; aggregate drift is accepted, not corrected.
func Lifetime(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.Units += e.Units
		t.Amount += e.Amount
		if e.Status == StatusPaid {
			t.Paid += e.Amount
			t.PaidRecords++
		}
		t.Records++
	}
	t.Unpaid = t.Amount - t.Paid
	return t
}

// CurrentMonth aggregates the calendar month containing now and fills
// PreviousUnits from the immediately preceding month.
func CurrentMonth(entries []Entry, now time.Time) MonthSummary {
	start, end := MonthRange(now, 0)
	prevStart, prevEnd := MonthRange(now, -1)

	var s MonthSummary
	for _, e := range entries {
		if !e.CreatedAt.Before(start) && !e.CreatedAt.After(end) {
			s.Units += e.Units
			s.Amount += e.Amount
			if e.Status == StatusPaid {
				s.Paid += e.Amount
			}
			s.Records++
		}
		if !e.CreatedAt.Before(prevStart) && !e.CreatedAt.After(prevEnd) {
			s.PreviousUnits += e.Units
		}
	}
	s.Unpaid = s.Amount - s.Paid
	return s
}
