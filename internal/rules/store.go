package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/JordanBelfort38/noabo-sub000/internal/logging"
)

// Store loads dictionary tables from a YAML file, falling back to the
// built-in defaults when no file is found. The file layout mirrors Table.
type Store struct {
	Path   string
	logger logging.Logger
}

// NewStore creates a store reading from path. An empty path means
// "rules.yaml" resolved through the standard search locations.
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Store{Path: path, logger: logger}
}

// Load reads the dictionary tables. A missing file is not an error: the
// defaults are returned so the pipeline always has a usable table.
func (s *Store) Load() (Table, error) {
	filename := s.Path
	if filename == "" {
		filename = "rules.yaml"
	}

	path, err := s.findConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", filename).Debug("No rules file found, using built-in tables")
			return DefaultTable(), nil
		}
		return Table{}, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return Table{}, fmt.Errorf("error reading rules file: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("error parsing rules file: %w", err)
	}

	// A partial file keeps the defaults for the sections it omits.
	defaults := DefaultTable()
	if len(table.Merchants) == 0 {
		table.Merchants = defaults.Merchants
	}
	if len(table.Categories) == 0 {
		table.Categories = defaults.Categories
	}
	if len(table.KnownSubscriptionMerchants) == 0 {
		table.KnownSubscriptionMerchants = defaults.KnownSubscriptionMerchants
	}

	s.logger.WithFields(
		logging.F("file", path),
		logging.F("merchants", len(table.Merchants)),
		logging.F("categories", len(table.Categories)),
	).Debug("Loaded rules file")

	return table, nil
}

// findConfigFile looks for the file in the standard locations.
func (s *Store) findConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "noabo", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}
