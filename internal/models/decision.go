package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decision is a user resolution for one due record. It is a closed set:
// PayDecision or RescheduleDecision. Deferring a reminder is a session-level
// action, not a resolution, and so does not appear here.
type Decision interface {
	decision()
}

// PayDecision records a full or partial payment against the outstanding
// amount. Note, when set, is appended to the record's remarks.
type PayDecision struct {
	AmountPaid decimal.Decimal
	Note       string
}

func (PayDecision) decision() {}

// RescheduleDecision moves the due date forward without changing the payment
// status. Remark, when set, is appended to the reschedule history.
type RescheduleDecision struct {
	NewDueDate time.Time
	Remark     string
}

func (RescheduleDecision) decision() {}

// Outcome describes what a successful resolution did, for subscribers such
// as the e-mail notifier and for the cycle summary.
type Outcome string

const (
	// OutcomePaid means the record was settled in full.
	OutcomePaid Outcome = "paid"
	// OutcomePartiallyPaid means a partial payment was recorded.
	OutcomePartiallyPaid Outcome = "partially_paid"
	// OutcomeRescheduled means the due date was moved.
	OutcomeRescheduled Outcome = "rescheduled"
)

// ResolutionEvent is emitted after a resolution has been committed to the
// store. Subscribers must treat it as informational: the store update is
// already durable and cannot be rolled back by a subscriber failure.
type ResolutionEvent struct {
	Record     PaymentRecord
	Outcome    Outcome
	AmountPaid decimal.Decimal
	NewDueDate time.Time
	AppliedAt  time.Time
}
