// Package watch runs check cycles on a schedule.
package watch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/payment-reminder/cmd/common"
	"fjacquet/payment-reminder/cmd/root"
	"fjacquet/payment-reminder/internal/scheduler"

	"github.com/spf13/cobra"
)

var startupCheck bool

// Cmd represents the watch command
var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep running and start a check cycle on a cron schedule",
	Long: `watch stays in the foreground and starts an interactive check cycle
whenever the configured cron schedule fires (9 AM daily by default).
Reminders are presented on the terminal exactly as with 'check'.`,
	Run: watchFunc,
}

func init() {
	Cmd.Flags().BoolVar(&startupCheck, "startup-check", true, "Run a check cycle immediately on startup")
}

func watchFunc(cmd *cobra.Command, args []string) {
	c, err := root.BuildContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing application: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presenter := common.NewTerminalPresenter(os.Stdin, os.Stdout)
	sess := c.NewSession(presenter)

	if startupCheck {
		summary, err := sess.RunCheckCycle(ctx, time.Now())
		if err != nil {
			root.Log.Fatalf("Startup check cycle failed: %v", err)
		}
		common.PrintSummary(os.Stdout, summary)
	}

	sched := scheduler.New(sess, c.GetConfig().Reminder.CronSpec, c.GetLogger())
	if err := sched.Start(ctx); err != nil {
		root.Log.Fatalf("Error starting scheduler: %v", err)
	}

	root.Log.Infof("Watching for due payments (cron: %s). Press Ctrl+C to stop.",
		c.GetConfig().Reminder.CronSpec)
	<-ctx.Done()

	sched.Stop()
	root.Log.Info("Stopped.")
}
