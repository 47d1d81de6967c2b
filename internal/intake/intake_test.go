package intake

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/payment-reminder/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "payment_data"), ".csv", logging.NewMockLogger())
	require.NoError(t, err)
	return m
}

func seedStore(t *testing.T, m *Manager, city, name string) string {
	t.Helper()
	dir := filepath.Join(m.BaseDir(), city)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("Name,Amount,Due Date,Status\n"), 0o600))
	return path
}

func TestNewManagerCreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "payment_data")
	_, err := NewManager(base, ".csv", logging.NewMockLogger())
	require.NoError(t, err)
	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListStoreLocationsIsDeterministic(t *testing.T) {
	m := newTestManager(t)
	seedStore(t, m, "Zurich", "b.csv")
	seedStore(t, m, "Zurich", "a.csv")
	seedStore(t, m, "Geneva", "clients.csv")
	seedStore(t, m, "Geneva", "notes.txt") // wrong extension, ignored

	locations, err := m.ListStoreLocations()
	require.NoError(t, err)
	require.Len(t, locations, 3)

	// Cities sorted, then files within a city sorted.
	assert.Equal(t, "Geneva", locations[0].City)
	assert.Equal(t, "clients.csv", filepath.Base(locations[0].Path))
	assert.Equal(t, "Zurich", locations[1].City)
	assert.Equal(t, "a.csv", filepath.Base(locations[1].Path))
	assert.Equal(t, "b.csv", filepath.Base(locations[2].Path))

	again, err := m.ListStoreLocations()
	require.NoError(t, err)
	assert.Equal(t, locations, again)
}

func TestListCities(t *testing.T) {
	m := newTestManager(t)
	seedStore(t, m, "Zurich", "a.csv")
	seedStore(t, m, "Geneva", "a.csv")

	cities, err := m.ListCities()
	require.NoError(t, err)
	assert.Equal(t, []string{"Geneva", "Zurich"}, cities)
}

func TestImportFile(t *testing.T) {
	m := newTestManager(t)
	src := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(src, []byte("Name,Amount,Due Date,Status\n"), 0o600))

	target, err := m.ImportFile(src, "Geneva")
	require.NoError(t, err)

	base := filepath.Base(target)
	assert.True(t, strings.HasPrefix(base, "clients_"), "import keeps the source name")
	assert.True(t, strings.HasSuffix(base, ".csv"))
	assert.NotEqual(t, "clients.csv", base, "imports get a timestamp suffix")

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "Name,Amount,Due Date,Status\n", string(content))

	locations, err := m.CityLocations("Geneva")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, target, locations[0].Path)
}

func TestImportFileRejectsWrongExtension(t *testing.T) {
	m := newTestManager(t)
	src := filepath.Join(t.TempDir(), "clients.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("not a csv"), 0o600))

	_, err := m.ImportFile(src, "Geneva")
	assert.Error(t, err)
}

func TestImportFileRejectsMissingSource(t *testing.T) {
	m := newTestManager(t)
	_, err := m.ImportFile(filepath.Join(t.TempDir(), "absent.csv"), "Geneva")
	assert.Error(t, err)
}

func TestLoadRegistry(t *testing.T) {
	m := newTestManager(t)

	registry, err := m.LoadRegistry()
	require.NoError(t, err)
	assert.Empty(t, registry, "a missing registry is not an error")

	content := "Geneva:\n  display_name: Genève\n  contact_email: geneva@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(m.BaseDir(), "cities.yaml"), []byte(content), 0o600))

	registry, err = m.LoadRegistry()
	require.NoError(t, err)
	require.Contains(t, registry, "Geneva")
	assert.Equal(t, "Genève", registry["Geneva"].DisplayName)
	assert.Equal(t, "geneva@example.com", registry["Geneva"].ContactEmail)
}
