// Package check runs one interactive check cycle.
package check

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/payment-reminder/cmd/common"
	"fjacquet/payment-reminder/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the check command
var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Scan all stores and resolve due payments one by one",
	Long: `check scans every record store for due or overdue payments and walks
through them in due-date order. Each reminder must be paid, rescheduled, or
explicitly deferred before the next one is shown.`,
	Run: checkFunc,
}

func checkFunc(cmd *cobra.Command, args []string) {
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

	summary, err := sess.RunCheckCycle(ctx, root.AsOfDate())
	if err != nil {
		root.Log.Fatalf("Check cycle failed: %v", err)
	}

	common.PrintSummary(os.Stdout, summary)
}
