// Package billing implements the record engine: derived-field computation,
// reading validation, the payment-status state machine, and the monthly and
// lifetime rollups. It is pure and holds no persistence concerns so the
// billing rules can be tested without a database.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRate is the per-unit tariff applied when the caller supplies none.
const DefaultRate = 8.0

// Rate bounds accepted by ValidateRate.
const (
	MinRate = 0.01
	MaxRate = 1000
)

var (
	ErrNegativeReading = errors.New("readings must be non-negative integers")
	ErrReadingOrder    = errors.New("current reading must be greater than or equal to previous reading")
)

// ValidateReadings checks the monotonicity precondition for a reading pair.
func ValidateReadings(previous, current int) error {
	if previous < 0 || current < 0 {
		return ErrNegativeReading
	}
	if current < previous {
		return ErrReadingOrder
	}
	return nil
}

// ValidateRate checks the per-unit tariff bounds.
func ValidateRate(rate float64) error {
	if rate < MinRate || rate > MaxRate {
		return fmt.Errorf("rate per unit must be between %v and %v", MinRate, MaxRate)
	}
	return nil
}

// ComputeUnits returns the billed consumption for a reading pair. The pair
// must already satisfy ValidateReadings.
func ComputeUnits(previous, current int) int {
	return current - previous
}

// ComputeAmount returns units * rate rounded half-up at the cent boundary.
func ComputeAmount(units int, rate float64) float64 {
	amount := decimal.NewFromInt(int64(units)).Mul(decimal.NewFromFloat(rate))
	result, _ := amount.Round(2).Float64()
	return result
}

// Compute validates a reading pair and returns the derived billing fields.
func Compute(previous, current int, rate float64) (units int, amount float64, err error) {
	if err := ValidateReadings(previous, current); err != nil {
		return 0, 0, err
	}
	if err := ValidateRate(rate); err != nil {
		return 0, 0, err
	}
	units = ComputeUnits(previous, current)
	return units, ComputeAmount(units, rate), nil
}

// ValidateDueDate accepts due dates on or after the current local date.
func ValidateDueDate(due, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
	if dueDay.Before(today) {
		return errors.New("due date must be today or in the future")
	}
	return nil
}
