package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/automoto/splatarena/config"
	"github.com/gocarina/gocsv"
)

// KillRecord is one row of kills.csv.
type KillRecord struct {
	Tick     uint64  `csv:"tick"`
	Time     float64 `csv:"time"`
	EventID  string  `csv:"event_id"`
	Killer   string  `csv:"killer"`
	Victim   string  `csv:"victim"`
	Weapon   string  `csv:"weapon"`
	Critical bool    `csv:"critical"`
}

// OutputManager writes windows.csv, kills.csv and the effective config.
type OutputManager struct {
	dir         string
	windowsFile *os.File
	killsFile   *os.File

	windowsHeaderWritten bool
	killsHeaderWritten   bool
}

// NewOutputManager creates the output directory and files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	f, err := os.Create(filepath.Join(dir, "windows.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating windows.csv: %w", err)
	}
	om.windowsFile = f

	f, err = os.Create(filepath.Join(dir, "kills.csv"))
	if err != nil {
		om.windowsFile.Close()
		return nil, fmt.Errorf("creating kills.csv: %w", err)
	}
	om.killsFile = f
	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends a window row, writing the header on first use.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.windowsFile, []WindowStats{stats}, &om.windowsHeaderWritten); err != nil {
		return fmt.Errorf("writing window: %w", err)
	}
	return nil
}

// WriteKill appends a kill row.
func (om *OutputManager) WriteKill(k KillRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.killsFile, []KillRecord{k}, &om.killsHeaderWritten); err != nil {
		return fmt.Errorf("writing kill: %w", err)
	}
	return nil
}

func writeRows[T any](f *os.File, rows []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.windowsFile, om.killsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
