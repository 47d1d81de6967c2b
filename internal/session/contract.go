package session

import (
	"context"
	"time"

	"fjacquet/payment-reminder/internal/models"

	"github.com/shopspring/decimal"
)

// Action is one of the outcomes the presentation layer may return for a
// reminder. There is no "close without deciding": a reminder leaves the
// pending set only through a successful resolution or an explicit defer.
type Action string

const (
	// ActionPay resolves the reminder with a full or partial payment.
	ActionPay Action = "pay"
	// ActionReschedule resolves the reminder by moving the due date.
	ActionReschedule Action = "reschedule"
	// ActionDefer postpones the reminder to the back of the queue within the
	// same cycle, without resolving it.
	ActionDefer Action = "defer"
)

// Notification is the value object handed to the presentation layer for one
// reminder. The presenter renders these fields and returns a Response; it
// never touches the record or the store directly.
type Notification struct {
	Record      models.RecordID
	Name        string
	City        string
	Outstanding decimal.Decimal
	DueDate     time.Time
	Email       string
	Remarks     string
	DaysOverdue int
	Priority    string
	Allowed     []Action
	// LastError carries the validation or write failure from the previous
	// attempt when a reminder is re-presented.
	LastError string
}

// Response is the presentation layer's answer to one Notification.
// Decision must be set for ActionPay and ActionReschedule.
type Response struct {
	Action   Action
	Decision models.Decision
}

// Presenter is the boundary to the presentation layer. Present blocks until
// the user supplies a decision or defers; there is no timeout dismissal.
// It should return ctx.Err() when the context is cancelled mid-wait.
type Presenter interface {
	Present(ctx context.Context, n Notification) (Response, error)
}
