// Package upcoming lists payments that fall due soon.
package upcoming

import (
	"fmt"
	"os"

	"fjacquet/payment-reminder/cmd/root"
	"fjacquet/payment-reminder/internal/dateutils"

	"github.com/spf13/cobra"
)

var (
	daysAhead int
	notify    bool
)

// Cmd represents the upcoming command
var Cmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List payments due within the look-ahead window",
	Run:   upcomingFunc,
}

func init() {
	Cmd.Flags().IntVarP(&daysAhead, "days", "n", 0, "Look-ahead window in days (default from config)")
	Cmd.Flags().BoolVar(&notify, "notify", false, "Send a reminder e-mail to each client with an address")
}

func upcomingFunc(cmd *cobra.Command, args []string) {
	c, err := root.BuildContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing application: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	stores, err := c.Stores()
	if err != nil {
		root.Log.Fatalf("Error listing stores: %v", err)
	}

	window := daysAhead
	if window <= 0 {
		window = c.GetConfig().Reminder.UpcomingDays
	}

	asOf := root.AsOfDate()
	records, diags := c.GetDetector().FindUpcoming(stores, asOf, window)

	fmt.Fprintf(os.Stdout, "%d payments due within %d days:\n", len(records), window)
	sent := 0
	for _, r := range records {
		fmt.Fprintf(os.Stdout, "  %s (%s): $%s due %s\n",
			r.Name, r.City, r.Outstanding().StringFixed(2), dateutils.ToISODate(r.DueDate))

		if notify && r.Email != "" {
			if err := c.GetNotifier().SendReminder(r); err != nil {
				root.Log.Warnf("Reminder e-mail to %s not sent: %v", r.Email, err)
				continue
			}
			sent++
		}
	}
	if notify {
		fmt.Fprintf(os.Stdout, "Sent %d reminder e-mails.\n", sent)
	}

	for _, diag := range diags {
		fmt.Fprintf(os.Stdout, "  warning: %s could not be scanned: %v\n", diag.Location, diag.Err)
	}
}
