// Package session orchestrates one check cycle: scanning for due records,
// presenting them one at a time, and applying decisions until the pending
// set is drained.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"fjacquet/payment-reminder/internal/detector"
	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/resolution"
	"fjacquet/payment-reminder/internal/store"
	"fjacquet/payment-reminder/internal/storeerror"
)

// State names the phases of a check cycle, for logging and tests.
type State string

const (
	StateIdle          State = "idle"
	StateScanning      State = "scanning"
	StatePresentingOne State = "presenting_one"
	StateDraining      State = "draining"
)

// ResolutionStatus tracks one pending reminder within a cycle.
type ResolutionStatus string

const (
	ReminderOpen     ResolutionStatus = "Open"
	ReminderResolved ResolutionStatus = "Resolved"
)

// PendingReminder wraps one due record for the duration of a cycle.
// Reminders are derived fresh each cycle; none carry over.
type PendingReminder struct {
	Record    models.PaymentRecord
	FirstSeen time.Time
	Status    ResolutionStatus
	Deferrals int
	lastError string
}

// CycleSummary reports what one check cycle did.
type CycleSummary struct {
	AsOf          time.Time
	DueFound      int
	Paid          int
	PartiallyPaid int
	Rescheduled   int
	Deferred      int
	Failed        int
	Aborted       bool
	Diagnostics   []detector.Diagnostic
}

// StoreProvider supplies the current set of payment stores at the start of
// each cycle. The intake collaborator backs this in production.
type StoreProvider func() ([]store.PaymentStore, error)

// ErrCycleInProgress is returned when a second cycle is started while one is
// already open. A store has exactly one writer at a time.
var ErrCycleInProgress = errors.New("a check cycle is already in progress")

// Session runs check cycles. It holds no pending state between cycles.
type Session struct {
	provider  StoreProvider
	detector  *detector.Detector
	engine    *resolution.Engine
	presenter Presenter
	logger    logging.Logger
	maxPasses int
	running   atomic.Bool
	state     atomic.Value // State, for observability only
}

// New creates a Session. maxPasses bounds how many times deferred reminders
// are re-walked before the cycle drains; values below 1 default to 3.
func New(provider StoreProvider, det *detector.Detector, engine *resolution.Engine, presenter Presenter, logger logging.Logger, maxPasses int) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if maxPasses < 1 {
		maxPasses = 3
	}
	s := &Session{
		provider:  provider,
		detector:  det,
		engine:    engine,
		presenter: presenter,
		logger:    logger.WithField(logging.FieldComponent, "session"),
		maxPasses: maxPasses,
	}
	s.state.Store(StateIdle)
	return s
}

// State returns the session's current phase.
func (s *Session) State() State {
	return s.state.Load().(State)
}

// RunCheckCycle scans all stores for due records as of the given date and
// presents each one until resolved or deferred out. It is safe to call
// repeatedly; with no intervening decisions the pending set is identical
// across calls. Cancelling the context aborts the cycle at the next
// presentation boundary; decisions already applied stay applied.
func (s *Session) RunCheckCycle(ctx context.Context, asOf time.Time) (CycleSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return CycleSummary{}, ErrCycleInProgress
	}
	defer func() {
		s.state.Store(StateIdle)
		s.running.Store(false)
	}()

	asOf = models.DateOnly(asOf)
	summary := CycleSummary{AsOf: asOf}

	s.state.Store(StateScanning)
	stores, err := s.provider()
	if err != nil {
		return summary, fmt.Errorf("listing stores: %w", err)
	}

	storesByLocation := make(map[string]store.PaymentStore, len(stores))
	for _, st := range stores {
		storesByLocation[st.Location()] = st
	}

	due, diags := s.detector.FindDue(stores, asOf)
	summary.DueFound = len(due)
	summary.Diagnostics = diags

	if len(due) == 0 {
		s.drain(&summary)
		return summary, nil
	}

	now := time.Now()
	queue := make([]*PendingReminder, 0, len(due))
	for _, r := range due {
		queue = append(queue, &PendingReminder{
			Record:    r,
			FirstSeen: now,
			Status:    ReminderOpen,
		})
	}

	for len(queue) > 0 {
		if ctx.Err() != nil {
			summary.Aborted = true
			summary.Deferred += countOpen(queue)
			break
		}

		reminder := queue[0]
		queue = queue[1:]

		s.state.Store(StatePresentingOne)
		response, err := s.presenter.Present(ctx, s.notificationFor(reminder, asOf))
		if err != nil {
			// Presenter failure (including cancellation) aborts the cycle at
			// this boundary. The reminder stays unresolved.
			s.logger.WithError(err).Warn("Presenter did not return a decision",
				logging.F(logging.FieldRecord, reminder.Record.ID.String()))
			summary.Aborted = true
			summary.Deferred += 1 + countOpen(queue)
			break
		}

		switch response.Action {
		case ActionDefer:
			reminder.Deferrals++
			if reminder.Deferrals >= s.maxPasses {
				// Bounded defers keep the cycle from livelocking; the record
				// comes back on the next cycle regardless.
				s.logger.Info("Reminder deferred out of this cycle",
					logging.F(logging.FieldRecord, reminder.Record.ID.String()))
				summary.Deferred++
				continue
			}
			queue = append(queue, reminder)

		case ActionPay, ActionReschedule:
			st, ok := storesByLocation[reminder.Record.ID.Location]
			if !ok {
				return summary, fmt.Errorf("no store registered for %s", reminder.Record.ID.Location)
			}

			updated, err := s.engine.Apply(st, reminder.Record, response.Decision)
			if err != nil {
				queue = s.requeueAfterFailure(queue, reminder, err, &summary)
				continue
			}

			reminder.Status = ReminderResolved
			switch response.Action {
			case ActionPay:
				if updated.Status == models.StatusPaid {
					summary.Paid++
				} else {
					summary.PartiallyPaid++
				}
			case ActionReschedule:
				summary.Rescheduled++
			}

		default:
			return summary, fmt.Errorf("presenter returned unknown action %q", response.Action)
		}
	}

	s.drain(&summary)
	return summary, nil
}

// requeueAfterFailure puts a reminder back at the front of the queue so the
// user can correct the input or retry explicitly. Write failures count as
// failed attempts; validation rejections do not, since nothing was written.
func (s *Session) requeueAfterFailure(queue []*PendingReminder, reminder *PendingReminder, err error, summary *CycleSummary) []*PendingReminder {
	var resErr *storeerror.ResolutionError
	if errors.As(err, &resErr) {
		summary.Failed++
	}
	reminder.lastError = err.Error()
	return append([]*PendingReminder{reminder}, queue...)
}

func (s *Session) notificationFor(r *PendingReminder, asOf time.Time) Notification {
	n := Notification{
		Record:      r.Record.ID,
		Name:        r.Record.Name,
		City:        r.Record.City,
		Outstanding: r.Record.Outstanding(),
		DueDate:     r.Record.DueDate,
		Email:       r.Record.Email,
		Remarks:     r.Record.Remarks,
		DaysOverdue: r.Record.DaysOverdue(asOf),
		Priority:    r.Record.Priority(asOf),
		Allowed:     []Action{ActionPay, ActionReschedule, ActionDefer},
		LastError:   r.lastError,
	}
	r.lastError = ""
	return n
}

func (s *Session) drain(summary *CycleSummary) {
	s.state.Store(StateDraining)
	s.logger.Info("Check cycle drained",
		logging.F("due", summary.DueFound),
		logging.F("paid", summary.Paid),
		logging.F("partially_paid", summary.PartiallyPaid),
		logging.F("rescheduled", summary.Rescheduled),
		logging.F("deferred", summary.Deferred),
		logging.F("failed", summary.Failed),
		logging.F("aborted", summary.Aborted))
}

func countOpen(queue []*PendingReminder) int {
	open := 0
	for _, r := range queue {
		if r.Status == ReminderOpen {
			open++
		}
	}
	return open
}
