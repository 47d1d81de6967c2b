// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		// Directory is the root of the payment data tree: one subdirectory
		// per city, each holding that city's record stores.
		Directory string `mapstructure:"directory" yaml:"directory"`
		// Extension of the record store files, including the dot.
		Extension string `mapstructure:"extension" yaml:"extension"`
		// Delimiter used inside the record stores.
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"data" yaml:"data"`

	Reminder struct {
		// UpcomingDays is the look-ahead window for upcoming payments.
		UpcomingDays int `mapstructure:"upcoming_days" yaml:"upcoming_days"`
		// MaxDeferPasses bounds how many times a cycle re-walks deferred
		// reminders before draining.
		MaxDeferPasses int `mapstructure:"max_defer_passes" yaml:"max_defer_passes"`
		// CronSpec drives scheduled check cycles in watch mode.
		CronSpec string `mapstructure:"cron_spec" yaml:"cron_spec"`
	} `mapstructure:"reminder" yaml:"reminder"`

	SMTP struct {
		Host        string `mapstructure:"host" yaml:"host"`
		Port        int    `mapstructure:"port" yaml:"port"`
		SenderEmail string `mapstructure:"sender_email" yaml:"sender_email"`
		CompanyName string `mapstructure:"company_name" yaml:"company_name"`
		Password    string `mapstructure:"password" yaml:"-"` // Never serialize the password
	} `mapstructure:"smtp" yaml:"smtp"`
}

// EmailEnabled reports whether outbound e-mail is configured. An unconfigured
// notifier disables itself rather than failing.
func (c *Config) EmailEnabled() bool {
	return c.SMTP.SenderEmail != "" && c.SMTP.Password != ""
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.payment-reminder")
	v.AddConfigPath(".payment-reminder")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("REMINDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. SMTP credentials come from the conventional unprefixed variables
	for key, env := range map[string]string{
		"smtp.host":         "SMTP_SERVER",
		"smtp.sender_email": "SENDER_EMAIL",
		"smtp.password":     "EMAIL_APP_PASSWORD",
		"smtp.company_name": "COMPANY_NAME",
	} {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "payment_data")
	v.SetDefault("data.extension", ".csv")
	v.SetDefault("data.delimiter", ",")

	v.SetDefault("reminder.upcoming_days", 7)
	v.SetDefault("reminder.max_defer_passes", 3)
	v.SetDefault("reminder.cron_spec", "0 9 * * *")

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.company_name", "Our Company")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.Data.Delimiter) != 1 {
		return fmt.Errorf("data delimiter must be a single character, got: %s", config.Data.Delimiter)
	}

	if !strings.HasPrefix(config.Data.Extension, ".") {
		return fmt.Errorf("data extension must start with a dot, got: %s", config.Data.Extension)
	}

	if config.Reminder.UpcomingDays < 1 || config.Reminder.UpcomingDays > 365 {
		return fmt.Errorf("reminder.upcoming_days must be between 1 and 365, got: %d", config.Reminder.UpcomingDays)
	}

	if config.Reminder.MaxDeferPasses < 1 || config.Reminder.MaxDeferPasses > 100 {
		return fmt.Errorf("reminder.max_defer_passes must be between 1 and 100, got: %d", config.Reminder.MaxDeferPasses)
	}

	if config.SMTP.Port < 1 || config.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be a valid port, got: %d", config.SMTP.Port)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
