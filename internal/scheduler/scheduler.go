// Package scheduler runs check cycles on a cron schedule for long-lived
// (watch) mode.
package scheduler

import (
	"context"
	"time"

	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/session"

	"github.com/robfig/cron/v3"
)

// CycleScheduler triggers a ReminderSession on a cron spec.
type CycleScheduler struct {
	cronEngine *cron.Cron
	sess       *session.Session
	logger     logging.Logger
	cronSpec   string
}

// New creates a scheduler that runs sess.RunCheckCycle per the cron spec,
// e.g. "0 9 * * *" for 9 AM daily.
func New(sess *session.Session, cronSpec string, logger logging.Logger) *CycleScheduler {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CycleScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		sess:       sess,
		logger:     logger.WithField(logging.FieldComponent, "scheduler"),
		cronSpec:   cronSpec,
	}
}

// Start registers the cycle job and starts the cron engine.
func (s *CycleScheduler) Start(ctx context.Context) error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Scheduled check cycle triggered")
		summary, err := s.sess.RunCheckCycle(ctx, time.Now())
		if err != nil {
			// ErrCycleInProgress just means the previous cycle is still
			// waiting on a decision; the next tick will try again.
			s.logger.WithError(err).Warn("Scheduled check cycle did not run")
			return
		}
		s.logger.Info("Scheduled check cycle finished",
			logging.F("due", summary.DueFound),
			logging.F("deferred", summary.Deferred))
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("Cycle scheduler started", logging.F("cron_spec", s.cronSpec))
	return nil
}

// Stop halts the cron engine and waits for a running job to finish.
func (s *CycleScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Cycle scheduler stopped")
}
