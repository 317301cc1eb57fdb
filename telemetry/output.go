package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/FarshadAmiri/complex-systems-simulations/config"
)

// OutputManager handles structured run output with CSV logging. Each run
// gets a fresh UUID so rows from repeated experiments stay attributable.
type OutputManager struct {
	dir   string
	runID string

	populationFile *os.File

	// Track if headers have been written
	populationHeaderWritten bool
}

// NewOutputManager creates the output directory and opens population.csv.
// Returns nil if dir is empty (output disabled); callers may use a nil
// manager, every method no-ops on it.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, runID: uuid.NewString()}

	f, err := os.Create(filepath.Join(dir, "population.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating population.csv: %w", err)
	}
	om.populationFile = f

	return om, nil
}

// RunID returns the unique identifier of this run, or "" when disabled.
func (om *OutputManager) RunID() string {
	if om == nil {
		return ""
	}
	return om.runID
}

// WriteConfig saves the effective configuration next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTick appends one population record to population.csv.
func (om *OutputManager) WriteTick(rec TickRecord) error {
	if om == nil {
		return nil
	}

	records := []TickRecord{rec}
	if !om.populationHeaderWritten {
		if err := gocsv.Marshal(records, om.populationFile); err != nil {
			return fmt.Errorf("writing population row: %w", err)
		}
		om.populationHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.populationFile); err != nil {
		return fmt.Errorf("writing population row: %w", err)
	}
	return nil
}

// WriteSummary writes the end-of-run summary.csv.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal([]Summary{s}, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Close flushes and closes the open CSV files.
func (om *OutputManager) Close() error {
	if om == nil || om.populationFile == nil {
		return nil
	}
	return om.populationFile.Close()
}
