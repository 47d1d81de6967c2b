package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/payment-reminder/cmd/check"
	"fjacquet/payment-reminder/cmd/ingest"
	"fjacquet/payment-reminder/cmd/root"
	"fjacquet/payment-reminder/cmd/summary"
	"fjacquet/payment-reminder/cmd/template"
	"fjacquet/payment-reminder/cmd/upcoming"
	"fjacquet/payment-reminder/cmd/watch"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(check.Cmd)
	root.Cmd.AddCommand(watch.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(upcoming.Cmd)
	root.Cmd.AddCommand(template.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
