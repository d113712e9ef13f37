package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: record files
// under data/records, generated tables under data/reports, logs under
// logs/.
type Paths struct {
	ExecutableDir string
	DataDir       string
	RecordsDir    string
	ReportsDir    string
	LogsDir       string

	// Well-known output files
	CycleSummaryCSV string
	SummaryWorkbook string
}

// GetPaths returns the application paths relative to the executable
// location, never the current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return GetPathsFrom(filepath.Dir(exe)), nil
}

// GetPathsFrom builds the path set rooted at an explicit base directory.
//
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── records/   (instrument .mat files)
//	  │   └── reports/   (generated tables)
//	  └── logs/
func GetPathsFrom(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		ExecutableDir:   baseDir,
		DataDir:         dataDir,
		RecordsDir:      filepath.Join(dataDir, "records"),
		ReportsDir:      reportsDir,
		LogsDir:         filepath.Join(baseDir, "logs"),
		CycleSummaryCSV: filepath.Join(reportsDir, "battery_cycles_summary.csv"),
		SummaryWorkbook: filepath.Join(reportsDir, "battery_summary.xlsx"),
	}
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.RecordsDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetReportPath returns the full path for a generated report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetRecordPath returns the full path for an input record file
func (p *Paths) GetRecordPath(filename string) string {
	return filepath.Join(p.RecordsDir, filename)
}
