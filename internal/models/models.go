// Package models defines the core domain types shared across the application.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the payment state of a record.
type Status string

const (
	// StatusUnpaid indicates that no payment has been received.
	StatusUnpaid Status = "Unpaid"
	// StatusPartiallyPaid indicates that part of the amount has been received.
	StatusPartiallyPaid Status = "Partially Paid"
	// StatusPaid indicates that the record is settled in full.
	StatusPaid Status = "Paid"
)

// ParseStatus normalizes a stored status value. Legacy stores used "Partial"
// for partially paid rows and left the column empty for unpaid ones.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return StatusPaid
	case "partial", "partially paid":
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}

// RecordID identifies one row in one payment store. The row index is stable
// for the duration of a session; stores must not insert or delete rows while
// a session is open.
type RecordID struct {
	Location string
	Row      int
}

// String returns a human-readable identity, used in logs and errors.
func (id RecordID) String() string {
	return fmt.Sprintf("%s#%d", id.Location, id.Row)
}

// PaymentRecord is one client payment entry read from a store.
// Amount carries the outstanding balance: it is decremented by payments and
// reaches zero exactly when the record is Paid.
type PaymentRecord struct {
	ID          RecordID
	City        string
	Name        string
	Amount      decimal.Decimal
	DueDate     time.Time
	Email       string
	Status      Status
	Remarks     string
	PaymentDate time.Time
}

// Outstanding returns the amount still owed on the record.
func (r PaymentRecord) Outstanding() decimal.Decimal {
	return r.Amount
}

// IsDue reports whether the record requires attention as of the given date:
// due date reached and not yet settled.
func (r PaymentRecord) IsDue(asOf time.Time) bool {
	if r.Status == StatusPaid {
		return false
	}
	if r.DueDate.IsZero() {
		return false
	}
	return !DateOnly(r.DueDate).After(DateOnly(asOf))
}

// DaysOverdue returns how many whole days the record is past due.
// Records due today or in the future return 0.
func (r PaymentRecord) DaysOverdue(asOf time.Time) int {
	days := int(DateOnly(asOf).Sub(DateOnly(r.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Priority levels derived from how long a record has been overdue.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Priority classifies the urgency of a due record by days overdue.
func (r PaymentRecord) Priority(asOf time.Time) string {
	switch days := r.DaysOverdue(asOf); {
	case days > 30:
		return PriorityHigh
	case days > 7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Validate checks the status/amount invariant after a mutation:
// Paid rows owe nothing, everything else owes a positive amount.
func (r PaymentRecord) Validate() error {
	if r.Amount.IsNegative() {
		return fmt.Errorf("record %s has negative outstanding amount %s", r.ID, r.Amount)
	}
	switch r.Status {
	case StatusPaid:
		if !r.Amount.IsZero() {
			return fmt.Errorf("record %s is Paid but still owes %s", r.ID, r.Amount)
		}
	case StatusUnpaid, StatusPartiallyPaid:
		if r.Amount.IsZero() {
			return fmt.Errorf("record %s is %s but owes nothing", r.ID, r.Status)
		}
	default:
		return fmt.Errorf("record %s has unknown status %q", r.ID, r.Status)
	}
	return nil
}

// DateOnly truncates a timestamp to its calendar date, preserving location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
