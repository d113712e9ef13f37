package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"battcli/internal/config"
	"battcli/internal/dataprocessing"
	apperrors "battcli/internal/errors"
	"battcli/internal/exporter"
	"battcli/internal/files"
	"battcli/internal/infrastructure"
	"battcli/internal/validation"
	"battcli/pkg/contracts/domain"
)

// runOptions carries everything the batch loop needs so it can be
// driven from tests without flags or a real executable layout.
type runOptions struct {
	InDir    string
	OutDir   string
	Workbook bool
	Logger   *slog.Logger
	Stdout   io.Writer
}

func main() {
	inDir := flag.String("in", "", "input directory for .mat battery records (defaults to data/records relative to executable)")
	outDir := flag.String("out", "", "output directory for generated tables (defaults to data/reports relative to executable)")
	flag.Parse()

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inDir == "" {
		*inDir = paths.RecordsDir
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "both",
				FilePath: paths.GetLogPath("process.log"),
			},
			Processing: config.ProcessingConfig{
				RecordExtension: ".mat",
				SummaryWorkbook: true,
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(context.Background())

	logger.InfoContext(ctx, "Starting battery cycle processing",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.String("executable_dir", paths.ExecutableDir))

	err = run(ctx, runOptions{
		InDir:    *inDir,
		OutDir:   *outDir,
		Workbook: cfg.Processing.SummaryWorkbook,
		Logger:   logger,
		Stdout:   os.Stdout,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Batch run failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one batch: discover records, process each file, label
// the concatenated table and write the outputs. An empty batch is an
// error and leaves no output file behind.
func run(ctx context.Context, opts runOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(opts.InDir, "*"+files.RecordExtension); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(opts.OutDir); err != nil {
		return err
	}

	discovery := files.NewDiscovery(opts.InDir)
	records, err := discovery.FindBatteryRecords(opts.InDir)
	if err != nil {
		return fmt.Errorf("failed to discover battery records: %w", err)
	}

	logger.InfoContext(ctx, "Battery records discovered", slog.Int("count", len(records)))
	fmt.Fprintf(stdout, "Found %d battery records\n", len(records))

	processor := dataprocessing.NewProcessor(logger)

	var table []domain.PairedCycleRow
	for i, record := range records {
		logger.InfoContext(ctx, "Processing record",
			slog.Int("current", i+1),
			slog.Int("total", len(records)),
			slog.String("file", record.Path))
		fmt.Fprintf(stdout, "Processing %s ...\n", record.Path)

		report, err := processor.ProcessBattery(ctx, record.Path)
		if err != nil {
			logger.WarnContext(ctx, "Record skipped",
				slog.String("file", record.Path),
				slog.String("error", err.Error()))
			if apperrors.IsType(err, apperrors.ErrTypeStructure) {
				fmt.Fprintln(stdout, "No valid 'cycle' structure found, skipped.")
			} else {
				fmt.Fprintf(stdout, "Could not read record, skipped: %v\n", err)
			}
			continue
		}

		if len(report.Rows) == 0 {
			fmt.Fprintln(stdout, "No charge-discharge pairs found.")
			continue
		}

		fmt.Fprintf(stdout, "Successfully matched %d charge+discharge pairs.\n", len(report.Rows))
		table = append(table, report.Rows...)
	}

	if len(table) == 0 {
		return apperrors.NewEmptyBatchError("no charge-discharge pairs found in any record").
			WithContext("input_dir", opts.InDir)
	}

	dataprocessing.LabelRUL(table)

	csvPath := filepath.Join(opts.OutDir, "battery_cycles_summary.csv")
	csvWriter := exporter.NewCSVWriter(nil)
	if err := csvWriter.WriteCycleTable(csvPath, table); err != nil {
		return fmt.Errorf("failed to write cycle table: %w", err)
	}

	columns := len(domain.TableColumns())
	logger.InfoContext(ctx, "Cycle table written",
		slog.String("path", csvPath),
		slog.Int("rows", len(table)),
		slog.Int("columns", columns))
	fmt.Fprintf(stdout, "Wrote %d rows x %d columns to %s\n", len(table), columns, csvPath)

	if opts.Workbook {
		xlsxPath := filepath.Join(opts.OutDir, "battery_summary.xlsx")
		excelWriter := exporter.NewExcelWriter(nil)
		if err := excelWriter.WriteSummaryWorkbook(xlsxPath, table); err != nil {
			return fmt.Errorf("failed to write summary workbook: %w", err)
		}
		fmt.Fprintf(stdout, "Wrote summary workbook to %s\n", xlsxPath)
	}

	return nil
}
