package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gridnav/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	searchFile *os.File
	statsFile  *os.File

	// Track if headers have been written
	searchHeaderWritten bool
	statsHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled); all write
// methods are no-ops on a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	searchPath := filepath.Join(dir, "searches.csv")
	f, err := os.Create(searchPath)
	if err != nil {
		return nil, fmt.Errorf("creating searches.csv: %w", err)
	}
	om.searchFile = f

	statsPath := filepath.Join(dir, "stats.csv")
	f, err = os.Create(statsPath)
	if err != nil {
		om.searchFile.Close()
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteSearch writes a search record to searches.csv.
func (om *OutputManager) WriteSearch(rec SearchRecord) error {
	if om == nil {
		return nil
	}

	records := []SearchRecord{rec}

	if !om.searchHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.searchFile); err != nil {
			return fmt.Errorf("writing search record: %w", err)
		}
		om.searchHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.searchFile); err != nil {
			return fmt.Errorf("writing search record: %w", err)
		}
	}

	return nil
}

// WriteStats writes an aggregate stats record to stats.csv.
func (om *OutputManager) WriteStats(stats RunStats) error {
	if om == nil {
		return nil
	}

	records := []RunStats{stats}

	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	return nil
}

// WriteSnapshot saves the final simulation snapshot as JSON.
func (om *OutputManager) WriteSnapshot(snap any) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	snapPath := filepath.Join(om.dir, "snapshot.json")
	if err := os.WriteFile(snapPath, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot.json: %w", err)
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.searchFile != nil {
		if err := om.searchFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.statsFile != nil {
		if err := om.statsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
