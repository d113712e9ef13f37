package dataprocessing

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"battcli/internal/errors"
	"battcli/internal/matfile"
	"battcli/pkg/contracts/domain"
)

// Processor runs the per-file half of the pipeline: decode one
// instrument record, extract its cycle feature rows, and pair them.
// RUL labeling happens later, over the concatenated table.
type Processor struct {
	logger    *slog.Logger
	extractor *CycleExtractor
}

// NewProcessor creates a per-file processor.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: NewCycleExtractor(logger),
	}
}

// BatteryName derives the battery identifier from a record file path:
// the base name up to the first dot.
func BatteryName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// ProcessBattery decodes the record at path and returns its paired
// cycle rows, unlabeled. Structural absence (no usable top-level
// variable, no cycle list) and decode failures surface as errors the
// batch loop treats as per-file skips. A structurally valid file with
// no charge-discharge pairs returns an empty report and no error.
func (p *Processor) ProcessBattery(ctx context.Context, path string) (*domain.BatteryReport, error) {
	battery := BatteryName(path)
	report := &domain.BatteryReport{Battery: battery}

	f, err := matfile.Open(path)
	if err != nil {
		return report, errors.NewParsingError("failed to decode battery record", err).
			WithContext("file", path)
	}

	charge, discharge, err := p.extractor.Extract(f)
	if err != nil {
		return report, err
	}

	report.Rows = PairCycles(battery, charge, discharge)

	p.logger.InfoContext(ctx, "battery record processed",
		slog.String("battery", battery),
		slog.Int("charge_cycles", len(charge)),
		slog.Int("discharge_cycles", len(discharge)),
		slog.Int("paired_cycles", len(report.Rows)))

	return report, nil
}
