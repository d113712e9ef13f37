package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"battcli/internal/config"
	apperrors "battcli/internal/errors"
	"battcli/pkg/contracts/domain"
)

// summarySheet is the sheet holding the per-battery overview.
const summarySheet = "Summary"

// BatterySummary is one battery's aggregate row in the workbook.
type BatterySummary struct {
	Battery       string
	PairedCycles  int
	LifeCycles    int
	FirstCapacity float64
	LastCapacity  float64
	FadePercent   float64
}

// ExcelWriter writes the per-battery summary workbook
type ExcelWriter struct {
	paths *config.Paths
}

// NewExcelWriter creates a new workbook writer instance
func NewExcelWriter(paths *config.Paths) *ExcelWriter {
	return &ExcelWriter{paths: paths}
}

// BuildSummaries aggregates labeled cycle rows into one summary per
// battery, ordered by battery name. Capacity endpoints skip NaN cells
// so a battery whose first discharge lacked a capacity reading still
// gets a usable fade figure.
func BuildSummaries(rows []domain.PairedCycleRow) []BatterySummary {
	byBattery := make(map[string][]domain.PairedCycleRow)
	for _, row := range rows {
		byBattery[row.Battery] = append(byBattery[row.Battery], row)
	}

	names := make([]string, 0, len(byBattery))
	for name := range byBattery {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]BatterySummary, 0, len(names))
	for _, name := range names {
		group := byBattery[name]
		sort.Slice(group, func(i, j int) bool { return group[i].Cycle < group[j].Cycle })

		s := BatterySummary{
			Battery:       name,
			PairedCycles:  len(group),
			FirstCapacity: math.NaN(),
			LastCapacity:  math.NaN(),
			FadePercent:   math.NaN(),
		}
		for _, row := range group {
			if row.Cycle > s.LifeCycles {
				s.LifeCycles = row.Cycle
			}
			cap := row.Features[domain.FeatureCapacity]
			if math.IsNaN(cap) {
				continue
			}
			if math.IsNaN(s.FirstCapacity) {
				s.FirstCapacity = cap
			}
			s.LastCapacity = cap
		}
		if !math.IsNaN(s.FirstCapacity) && s.FirstCapacity != 0 {
			s.FadePercent = (s.FirstCapacity - s.LastCapacity) / s.FirstCapacity * 100
		}
		summaries = append(summaries, s)
	}

	return summaries
}

// WriteSummaryWorkbook writes the per-battery overview workbook to path.
func (w *ExcelWriter) WriteSummaryWorkbook(path string, rows []domain.PairedCycleRow) error {
	fullPath := path
	if !filepath.IsAbs(path) && w.paths != nil {
		fullPath = w.paths.GetReportPath(path)
	}

	summaries := BuildSummaries(rows)

	slog.Info("Writing summary workbook",
		slog.String("full_path", fullPath),
		slog.Int("batteries", len(summaries)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).
			WithContext("path", fullPath)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.GetSheetIndex("Sheet1")
	if err != nil {
		return fmt.Errorf("failed to locate default sheet: %w", err)
	}
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Battery", "Paired Cycles", "Life (cycles)", "First Capacity (Ah)", "Last Capacity (Ah)", "Fade (%)"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(summarySheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
	}

	for i, s := range summaries {
		values := []interface{}{
			s.Battery,
			s.PairedCycles,
			s.LifeCycles,
			workbookCell(s.FirstCapacity),
			workbookCell(s.LastCapacity),
			workbookCell(s.FadePercent),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to build cell for %s: %w", s.Battery, err)
			}
			if err := f.SetCellValue(summarySheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", s.Battery, err)
			}
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).
			WithContext("path", fullPath)
	}

	return nil
}

// workbookCell renders NaN as an explicit marker since xlsx numeric
// cells cannot hold NaN.
func workbookCell(f float64) interface{} {
	if math.IsNaN(f) {
		return "NaN"
	}
	return f
}
