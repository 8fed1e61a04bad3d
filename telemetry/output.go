package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/ams-law/goldsite/config"
)

// csvLog appends records to one CSV file, writing the header once.
type csvLog struct {
	file          *os.File
	headerWritten bool
}

func openCSV(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{file: f}, nil
}

func (c *csvLog) write(records any) error {
	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.file); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.file)
}

// OutputManager writes run telemetry as CSV plus a config snapshot.
type OutputManager struct {
	dir    string
	ripple *csvLog
	perf   *csvLog
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	ripple, err := openCSV(dir, "ripple.csv")
	if err != nil {
		return nil, err
	}
	perf, err := openCSV(dir, "perf.csv")
	if err != nil {
		ripple.file.Close()
		return nil, err
	}
	return &OutputManager{dir: dir, ripple: ripple, perf: perf}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteRipple appends a window stats record to ripple.csv.
func (om *OutputManager) WriteRipple(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.ripple.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing ripple stats: %w", err)
	}
	return nil
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
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
	for _, c := range []*csvLog{om.ripple, om.perf} {
		if err := c.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
