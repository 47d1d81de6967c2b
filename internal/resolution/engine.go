// Package resolution applies user decisions to payment records and persists
// the outcome through the store adapter.
package resolution

import (
	"fmt"
	"time"

	"fjacquet/payment-reminder/internal/dateutils"
	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/models"
	"fjacquet/payment-reminder/internal/store"
	"fjacquet/payment-reminder/internal/storeerror"
)

// Subscriber receives resolution events after the store update has been
// committed. A subscriber cannot fail the resolution: the write is already
// durable when it runs.
type Subscriber func(models.ResolutionEvent)

// Engine validates decisions and writes the resulting record state.
// All mutation of persisted payment data flows through Apply.
type Engine struct {
	clock       func() time.Time
	logger      logging.Logger
	subscribers []Subscriber
}

// NewEngine creates an Engine. clock supplies "today" for date validation
// and remark stamps; pass nil for wall-clock time.
func NewEngine(logger logging.Logger, clock func() time.Time) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		clock:  clock,
		logger: logger.WithField(logging.FieldComponent, "resolution"),
	}
}

// Subscribe registers an outcome subscriber, e.g. the e-mail notifier.
func (e *Engine) Subscribe(s Subscriber) {
	if s != nil {
		e.subscribers = append(e.subscribers, s)
	}
}

// Apply validates the decision, computes the new record state, and persists
// it via the store adapter. Validation failures are returned before any
// write is attempted; write failures come back as a ResolutionError and
// leave the store, and therefore the reminder, unchanged.
func (e *Engine) Apply(s store.PaymentStore, record models.PaymentRecord, decision models.Decision) (models.PaymentRecord, error) {
	switch d := decision.(type) {
	case models.PayDecision:
		return e.applyPay(s, record, d)
	case models.RescheduleDecision:
		return e.applyReschedule(s, record, d)
	default:
		return models.PaymentRecord{}, fmt.Errorf("unsupported decision type %T", decision)
	}
}

func (e *Engine) applyPay(s store.PaymentStore, record models.PaymentRecord, d models.PayDecision) (models.PaymentRecord, error) {
	outstanding := record.Outstanding()

	if !d.AmountPaid.IsPositive() {
		return models.PaymentRecord{}, &storeerror.InvalidAmountError{
			Amount: d.AmountPaid.String(),
			Reason: "payment must be greater than zero",
		}
	}
	if d.AmountPaid.GreaterThan(outstanding) {
		return models.PaymentRecord{}, &storeerror.InvalidAmountError{
			Amount: d.AmountPaid.String(),
			Reason: fmt.Sprintf("payment exceeds outstanding amount %s", outstanding),
		}
	}

	today := models.DateOnly(e.clock())
	remaining := outstanding.Sub(d.AmountPaid)

	updated := record
	updated.Amount = remaining
	updated.PaymentDate = today
	if remaining.IsZero() {
		updated.Status = models.StatusPaid
	} else {
		updated.Status = models.StatusPartiallyPaid
	}
	if d.Note != "" {
		updated.Remarks = appendRemark(record.Remarks, today, d.Note)
	}

	update := store.RowUpdate{
		Amount:      &updated.Amount,
		Status:      &updated.Status,
		PaymentDate: &updated.PaymentDate,
	}
	if d.Note != "" {
		update.Remarks = &updated.Remarks
	}

	if err := s.UpdateRow(record.ID.Row, update); err != nil {
		e.logger.WithError(err).Error("Payment not persisted",
			logging.F(logging.FieldRecord, record.ID.String()))
		return models.PaymentRecord{}, &storeerror.ResolutionError{
			Record: record.ID.String(),
			Err:    err,
		}
	}

	outcome := models.OutcomePaid
	if updated.Status == models.StatusPartiallyPaid {
		outcome = models.OutcomePartiallyPaid
	}

	e.logger.Info("Payment applied",
		logging.F(logging.FieldRecord, record.ID.String()),
		logging.F(logging.FieldName, record.Name),
		logging.F(logging.FieldAmount, d.AmountPaid.String()),
		logging.F(logging.FieldOutcome, string(outcome)))

	e.publish(models.ResolutionEvent{
		Record:     updated,
		Outcome:    outcome,
		AmountPaid: d.AmountPaid,
		AppliedAt:  today,
	})
	return updated, nil
}

func (e *Engine) applyReschedule(s store.PaymentStore, record models.PaymentRecord, d models.RescheduleDecision) (models.PaymentRecord, error) {
	today := models.DateOnly(e.clock())

	if d.NewDueDate.IsZero() {
		return models.PaymentRecord{}, &storeerror.InvalidDateError{
			Value:  "",
			Reason: "no due date supplied",
		}
	}
	newDue := models.DateOnly(d.NewDueDate)
	if newDue.Before(today) {
		return models.PaymentRecord{}, &storeerror.InvalidDateError{
			Value:  dateutils.ToISODate(newDue),
			Reason: "due date must not be in the past",
		}
	}

	// Rescheduling never marks a record paid; status stays as it is.
	updated := record
	updated.DueDate = newDue
	updated.Remarks = appendRemark(record.Remarks, today,
		rescheduleRemark(newDue, d.Remark))

	update := store.RowUpdate{
		DueDate: &updated.DueDate,
		Remarks: &updated.Remarks,
	}

	if err := s.UpdateRow(record.ID.Row, update); err != nil {
		e.logger.WithError(err).Error("Reschedule not persisted",
			logging.F(logging.FieldRecord, record.ID.String()))
		return models.PaymentRecord{}, &storeerror.ResolutionError{
			Record: record.ID.String(),
			Err:    err,
		}
	}

	e.logger.Info("Record rescheduled",
		logging.F(logging.FieldRecord, record.ID.String()),
		logging.F(logging.FieldName, record.Name),
		logging.F(logging.FieldDueDate, dateutils.ToISODate(newDue)))

	e.publish(models.ResolutionEvent{
		Record:     updated,
		Outcome:    models.OutcomeRescheduled,
		NewDueDate: newDue,
		AppliedAt:  today,
	})
	return updated, nil
}

func (e *Engine) publish(event models.ResolutionEvent) {
	for _, s := range e.subscribers {
		s(event)
	}
}

func rescheduleRemark(newDue time.Time, remark string) string {
	msg := fmt.Sprintf("rescheduled to %s", dateutils.ToISODate(newDue))
	if remark != "" {
		msg += ": " + remark
	}
	return msg
}

// appendRemark keeps remark history: entries are stamped with the apply date
// and joined with "; ".
func appendRemark(existing string, day time.Time, msg string) string {
	entry := fmt.Sprintf("[%s] %s", dateutils.ToISODate(day), msg)
	if existing == "" {
		return entry
	}
	return existing + "; " + entry
}
