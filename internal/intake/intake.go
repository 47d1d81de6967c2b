// Package intake organizes the payment data tree and supplies store
// locations to the rest of the core. The layout is one subdirectory per
// city, each holding that city's record stores.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/payment-reminder/internal/fileutils"
	"fjacquet/payment-reminder/internal/logging"

	"gopkg.in/yaml.v3"
)

// Location is one record store handle: the backing file plus the city the
// store is scoped to.
type Location struct {
	Path string
	City string
}

// CityInfo is optional per-city metadata from the cities.yaml registry.
type CityInfo struct {
	DisplayName  string `yaml:"display_name"`
	ContactEmail string `yaml:"contact_email"`
}

// Manager owns the payment data directory.
type Manager struct {
	baseDir   string
	extension string
	logger    logging.Logger
}

// NewManager creates a Manager rooted at baseDir, creating the directory if
// needed. extension selects which files count as record stores.
func NewManager(baseDir, extension string, logger logging.Logger) (*Manager, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if err := fileutils.EnsureDirectoryExists(baseDir); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}
	return &Manager{
		baseDir:   baseDir,
		extension: extension,
		logger:    logger.WithField(logging.FieldComponent, "intake"),
	}, nil
}

// BaseDir returns the root of the data tree.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// ListCities returns the city folders in sorted order.
func (m *Manager) ListCities() ([]string, error) {
	return fileutils.ListSubdirectories(m.baseDir)
}

// ListStoreLocations returns every record store across all city folders.
// Cities and files within a city are sorted, so discovery order is
// deterministic across calls on unchanged data.
func (m *Manager) ListStoreLocations() ([]Location, error) {
	cities, err := m.ListCities()
	if err != nil {
		return nil, err
	}

	var locations []Location
	for _, city := range cities {
		files, err := fileutils.ListFilesWithExtension(filepath.Join(m.baseDir, city), m.extension)
		if err != nil {
			m.logger.WithError(err).Warn("Skipping unreadable city folder",
				logging.F(logging.FieldCity, city))
			continue
		}
		for _, f := range files {
			locations = append(locations, Location{Path: f, City: city})
		}
	}

	m.logger.Debug("Discovered record stores", logging.F(logging.FieldCount, len(locations)))
	return locations, nil
}

// CityLocations returns the record stores for one city.
func (m *Manager) CityLocations(city string) ([]Location, error) {
	files, err := fileutils.ListFilesWithExtension(filepath.Join(m.baseDir, city), m.extension)
	if err != nil {
		return nil, err
	}
	locations := make([]Location, 0, len(files))
	for _, f := range files {
		locations = append(locations, Location{Path: f, City: city})
	}
	return locations, nil
}

// ImportFile copies a record store into a city folder. The copy gets a
// timestamp suffix so repeated imports never overwrite each other.
func (m *Manager) ImportFile(src, city string) (string, error) {
	if !fileutils.FileExists(src) {
		return "", fmt.Errorf("source file does not exist: %s", src)
	}
	if ext := filepath.Ext(src); !strings.EqualFold(ext, m.extension) {
		return "", fmt.Errorf("invalid file type: expected %s, got %s", m.extension, ext)
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	target := filepath.Join(m.baseDir, city,
		fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), m.extension))

	if err := fileutils.CopyFile(src, target); err != nil {
		return "", fmt.Errorf("error importing file: %w", err)
	}

	m.logger.Info("Imported record store",
		logging.F(logging.FieldStore, target),
		logging.F(logging.FieldCity, city))
	return target, nil
}

// LatestForCity returns the most recently modified store for a city, or an
// empty string when the city has no stores.
func (m *Manager) LatestForCity(city string) (string, error) {
	locations, err := m.CityLocations(city)
	if err != nil {
		return "", err
	}
	var latest string
	var latestMod time.Time
	for _, loc := range locations {
		info, err := os.Stat(loc.Path)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = loc.Path
			latestMod = info.ModTime()
		}
	}
	return latest, nil
}

// LoadRegistry reads the optional cities.yaml registry at the root of the
// data tree. A missing registry is not an error.
func (m *Manager) LoadRegistry() (map[string]CityInfo, error) {
	path := filepath.Join(m.baseDir, "cities.yaml")
	if !fileutils.FileExists(path) {
		return map[string]CityInfo{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading city registry: %w", err)
	}

	var registry map[string]CityInfo
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("error parsing city registry: %w", err)
	}
	return registry, nil
}
