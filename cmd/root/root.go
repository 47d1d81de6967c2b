// Package root contains the root command for the application
package root

import (
	"time"

	"fjacquet/payment-reminder/internal/config"
	"fjacquet/payment-reminder/internal/container"
	"fjacquet/payment-reminder/internal/dateutils"
	"fjacquet/payment-reminder/internal/fileutils"
	"fjacquet/payment-reminder/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	DataDir string
	AsOf    string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "payment-reminder",
		Short: "Track client payments and resolve due reminders.",
		Long: `payment-reminder scans payment record stores for due and overdue
entries and walks you through resolving each one: record a full or partial
payment, move the due date, or defer the reminder to later in the cycle.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to payment-reminder!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
			fileutils.SetLogger(Log)
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.DataDir, "data-dir", "d", "", "Payment data directory (overrides config)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.AsOf, "as-of", "", "Run as of this date instead of today (YYYY-MM-DD)")
}

// BuildContainer loads configuration, applies flag overrides, and wires the
// application container. Commands call this at the top of their Run func.
func BuildContainer() (*container.Container, error) {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, err
	}
	if SharedFlags.DataDir != "" {
		cfg.Data.Directory = SharedFlags.DataDir
	}
	return container.NewContainer(cfg)
}

// AsOfDate resolves the --as-of flag, defaulting to today.
func AsOfDate() time.Time {
	if SharedFlags.AsOf == "" {
		return models.DateOnly(time.Now())
	}
	asOf, err := dateutils.ParseDateOnly(SharedFlags.AsOf)
	if err != nil {
		Log.Fatalf("Invalid --as-of date %q: %v", SharedFlags.AsOf, err)
	}
	return asOf
}
