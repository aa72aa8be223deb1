package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/arclight/config"
)

// Classification is one field code change, written to classifications.csv.
type Classification struct {
	Tick    int32  `csv:"tick"`
	Field   string `csv:"field"`
	Anchor  string `csv:"anchor"`
	Outcome string `csv:"outcome"`
	Code    string `csv:"code"`
	Depth   int    `csv:"depth"`
}

// csvFile appends records to a CSV file, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir             string
	telemetry       *csvFile
	perf            *csvFile
	classifications *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for name, dst := range map[string]**csvFile{
		"telemetry.csv":       &om.telemetry,
		"perf.csv":            &om.perf,
		"classifications.csv": &om.classifications,
	} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		*dst = &csvFile{f: f}
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteClassifications appends code changes to classifications.csv.
func (om *OutputManager) WriteClassifications(records []Classification) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if err := om.classifications.write(records); err != nil {
		return fmt.Errorf("writing classifications: %w", err)
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
	for _, c := range []*csvFile{om.telemetry, om.perf, om.classifications} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
