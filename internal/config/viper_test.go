package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "payment_data", cfg.Data.Directory)
	assert.Equal(t, ".csv", cfg.Data.Extension)
	assert.Equal(t, ",", cfg.Data.Delimiter)
	assert.Equal(t, 7, cfg.Reminder.UpcomingDays)
	assert.Equal(t, 3, cfg.Reminder.MaxDeferPasses)
	assert.Equal(t, "0 9 * * *", cfg.Reminder.CronSpec)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.EmailEnabled(), "no credentials means e-mail stays off")
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("REMINDER_DATA_DIRECTORY", "/var/lib/payments")
	t.Setenv("SENDER_EMAIL", "billing@example.com")
	t.Setenv("EMAIL_APP_PASSWORD", "app-password")
	t.Setenv("COMPANY_NAME", "Example AG")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/payments", cfg.Data.Directory)
	assert.Equal(t, "billing@example.com", cfg.SMTP.SenderEmail)
	assert.Equal(t, "Example AG", cfg.SMTP.CompanyName)
	assert.True(t, cfg.EmailEnabled())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.Data.Directory = "payment_data"
		cfg.Data.Extension = ".csv"
		cfg.Data.Delimiter = ","
		cfg.Reminder.UpcomingDays = 7
		cfg.Reminder.MaxDeferPasses = 3
		cfg.SMTP.Port = 587
		return cfg
	}

	require.NoError(t, validateConfig(valid()))

	cfg := valid()
	cfg.Log.Level = "chatty"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.Log.Format = "xml"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.Data.Delimiter = ";;"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.Data.Extension = "csv"
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.Reminder.UpcomingDays = 0
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.Reminder.MaxDeferPasses = 0
	assert.Error(t, validateConfig(cfg))

	cfg = valid()
	cfg.SMTP.Port = 0
	assert.Error(t, validateConfig(cfg))
}

func TestEmailEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.EmailEnabled())

	cfg.SMTP.SenderEmail = "billing@example.com"
	assert.False(t, cfg.EmailEnabled(), "a sender without a password is not enough")

	cfg.SMTP.Password = "app-password"
	assert.True(t, cfg.EmailEnabled())
}

// chdir switches to dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
