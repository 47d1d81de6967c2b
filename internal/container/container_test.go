package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/payment-reminder/internal/config"
	"fjacquet/payment-reminder/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.Data.Directory = filepath.Join(t.TempDir(), "payment_data")
	cfg.Data.Extension = ".csv"
	cfg.Data.Delimiter = ","
	cfg.Reminder.UpcomingDays = 7
	cfg.Reminder.MaxDeferPasses = 3
	cfg.SMTP.Port = 587
	return cfg
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetIntake())
	assert.NotNil(t, c.GetDetector())
	assert.NotNil(t, c.GetEngine())
	assert.NotNil(t, c.GetNotifier())
}

func TestNewContainerRejectsNilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

func TestStoresReflectDataTree(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	stores, err := c.Stores()
	require.NoError(t, err)
	assert.Empty(t, stores, "a fresh data directory has no stores")

	cityDir := filepath.Join(cfg.Data.Directory, "Geneva")
	require.NoError(t, os.MkdirAll(cityDir, 0o755))
	content := "Name,Amount,Due Date,Status\nAcme Corp,500,2024-01-01,Unpaid\n"
	require.NoError(t, os.WriteFile(filepath.Join(cityDir, "clients.csv"), []byte(content), 0o600))

	stores, err = c.Stores()
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Geneva", stores[0].City())

	records, err := stores[0].ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].Name)
}

type autoDefer struct{}

func (autoDefer) Present(context.Context, session.Notification) (session.Response, error) {
	return session.Response{Action: session.ActionDefer}, nil
}

func TestNewSessionRunsAgainstDataTree(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reminder.MaxDeferPasses = 1
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	cityDir := filepath.Join(cfg.Data.Directory, "Geneva")
	require.NoError(t, os.MkdirAll(cityDir, 0o755))
	content := "Name,Amount,Due Date,Status\nAcme Corp,500,2024-01-01,Unpaid\n"
	require.NoError(t, os.WriteFile(filepath.Join(cityDir, "clients.csv"), []byte(content), 0o600))

	sess := c.NewSession(autoDefer{})
	summary, err := sess.RunCheckCycle(context.Background(), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DueFound)
	assert.Equal(t, 1, summary.Deferred)
}
