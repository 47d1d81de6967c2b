// Package notifier sends outcome e-mails to clients after a resolution has
// been committed. Delivery is fire-and-forget: a failed or unconfigured send
// is logged and swallowed, never surfaced as a blocking error.
package notifier

import (
	"fmt"
	"net/smtp"

	"fjacquet/payment-reminder/internal/config"
	"fjacquet/payment-reminder/internal/dateutils"
	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/models"

	"github.com/jordan-wright/email"
)

// Sender delivers resolution notifications over SMTP.
type Sender struct {
	cfg    *config.Config
	logger logging.Logger
	// send is swappable in tests; defaults to a real SMTP send.
	send func(e *email.Email) error
}

// NewSender creates an e-mail sender from the SMTP section of the config.
func NewSender(cfg *config.Config, logger logging.Logger) *Sender {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &Sender{
		cfg:    cfg,
		logger: logger.WithField(logging.FieldComponent, "notifier"),
	}
	s.send = func(e *email.Email) error {
		addr := fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
		auth := smtp.PlainAuth("", cfg.SMTP.SenderEmail, cfg.SMTP.Password, cfg.SMTP.Host)
		return e.Send(addr, auth)
	}
	return s
}

// HandleResolution is the resolution-event subscriber. It returns
// immediately; delivery happens in the background.
func (s *Sender) HandleResolution(event models.ResolutionEvent) {
	if !s.cfg.EmailEnabled() {
		s.logger.Debug("E-mail notifier not configured, skipping notification")
		return
	}
	if event.Record.Email == "" {
		s.logger.Debug("Record has no e-mail address, skipping notification",
			logging.F(logging.FieldRecord, event.Record.ID.String()))
		return
	}

	go s.deliver(event)
}

func (s *Sender) deliver(event models.ResolutionEvent) {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.cfg.SMTP.CompanyName, s.cfg.SMTP.SenderEmail)
	e.To = []string{event.Record.Email}

	switch event.Outcome {
	case models.OutcomePaid, models.OutcomePartiallyPaid:
		e.Subject = fmt.Sprintf("Payment Confirmation - $%s received", event.AmountPaid.StringFixed(2))
		e.Text = []byte(s.confirmationBody(event))
	case models.OutcomeRescheduled:
		e.Subject = fmt.Sprintf("Payment Rescheduled - now due on %s", dateutils.ToISODate(event.NewDueDate))
		e.Text = []byte(s.rescheduleBody(event))
	default:
		return
	}

	if err := s.send(e); err != nil {
		s.logger.WithError(err).Warn("Failed to send notification e-mail",
			logging.F(logging.FieldRecipient, event.Record.Email),
			logging.F(logging.FieldOutcome, string(event.Outcome)))
		return
	}

	s.logger.Info("Notification e-mail sent",
		logging.F(logging.FieldRecipient, event.Record.Email),
		logging.F(logging.FieldOutcome, string(event.Outcome)))
}

func (s *Sender) confirmationBody(event models.ResolutionEvent) string {
	body := fmt.Sprintf("Dear %s,\n\n", event.Record.Name)
	body += fmt.Sprintf(
		"We have received your payment of $%s on %s.\n",
		event.AmountPaid.StringFixed(2), dateutils.ToISODate(event.AppliedAt),
	)
	if event.Outcome == models.OutcomePartiallyPaid {
		body += fmt.Sprintf(
			"Your remaining balance is $%s.\n",
			event.Record.Outstanding().StringFixed(2),
		)
	} else {
		body += "Your account is now fully settled. Thank you!\n"
	}
	body += fmt.Sprintf("\nBest regards,\n%s", s.cfg.SMTP.CompanyName)
	return body
}

func (s *Sender) rescheduleBody(event models.ResolutionEvent) string {
	body := fmt.Sprintf("Dear %s,\n\n", event.Record.Name)
	body += fmt.Sprintf(
		"Your payment of $%s has been rescheduled and is now due on %s.\n"+
			"Please ensure timely payment to avoid any inconvenience.\n",
		event.Record.Outstanding().StringFixed(2), dateutils.ToISODate(event.NewDueDate),
	)
	body += fmt.Sprintf("\nBest regards,\n%s", s.cfg.SMTP.CompanyName)
	return body
}

// SendReminder sends an upcoming-payment reminder to one client. Used by the
// upcoming command; unlike resolution notifications it reports its error so
// the caller can count deliveries.
func (s *Sender) SendReminder(record models.PaymentRecord) error {
	if !s.cfg.EmailEnabled() {
		return fmt.Errorf("e-mail notifier is not configured")
	}
	if record.Email == "" {
		return fmt.Errorf("record %s has no e-mail address", record.ID)
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.cfg.SMTP.CompanyName, s.cfg.SMTP.SenderEmail)
	e.To = []string{record.Email}
	e.Subject = fmt.Sprintf("Payment Reminder - $%s due on %s",
		record.Outstanding().StringFixed(2), dateutils.ToISODate(record.DueDate))

	body := fmt.Sprintf("Dear %s,\n\n", record.Name)
	body += fmt.Sprintf(
		"This is a friendly reminder that a payment of $%s is due on %s.\n"+
			"Please ensure timely payment to avoid any inconvenience.\n\n"+
			"If you have already made the payment, please disregard this message.\n",
		record.Outstanding().StringFixed(2), dateutils.ToISODate(record.DueDate),
	)
	body += fmt.Sprintf("\nBest regards,\n%s", s.cfg.SMTP.CompanyName)
	e.Text = []byte(body)

	if err := s.send(e); err != nil {
		return fmt.Errorf("failed to send reminder e-mail: %w", err)
	}
	return nil
}
