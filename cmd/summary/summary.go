// Package summary reports payment state across all stores.
package summary

import (
	"fmt"
	"os"

	"fjacquet/payment-reminder/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show payment status counts across all stores",
	Run:   summaryFunc,
}

func summaryFunc(cmd *cobra.Command, args []string) {
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

	s, diags := c.GetDetector().Summarize(stores, root.AsOfDate())

	fmt.Fprintf(os.Stdout, "Payment summary across %d stores:\n", len(stores))
	fmt.Fprintf(os.Stdout, "  total payments:    %d\n", s.TotalPayments)
	fmt.Fprintf(os.Stdout, "  paid:              %d\n", s.Paid)
	fmt.Fprintf(os.Stdout, "  partially paid:    %d\n", s.PartiallyPaid)
	fmt.Fprintf(os.Stdout, "  unpaid:            %d\n", s.Unpaid)
	fmt.Fprintf(os.Stdout, "  overdue:           %d\n", s.Overdue)
	fmt.Fprintf(os.Stdout, "  due today:         %d\n", s.DueToday)
	fmt.Fprintf(os.Stdout, "  upcoming:          %d\n", s.Upcoming)
	fmt.Fprintf(os.Stdout, "  total outstanding: $%s\n", s.TotalOutstanding.StringFixed(2))

	for _, diag := range diags {
		fmt.Fprintf(os.Stdout, "  warning: %s could not be scanned: %v\n", diag.Location, diag.Err)
	}
}
