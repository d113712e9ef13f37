package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"battcli/internal/config"
	apperrors "battcli/internal/errors"
	"battcli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths    *config.Paths
	validate *validator.Validate
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{
		paths:    paths,
		validate: validator.New(),
	}
}

// WriteCycleTable writes the combined per-cycle feature table to path.
// Every row is validated against the domain contract before anything
// touches disk, so a half-written table never replaces a previous good
// one; an invalid row is a defect in the pipeline and surfaces as a
// VALIDATION error. The column order is fixed by domain.TableColumns.
func (w *CSVWriter) WriteCycleTable(path string, rows []domain.PairedCycleRow) error {
	columns := domain.TableColumns()

	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if err := w.validate.Struct(row); err != nil {
			return apperrors.NewValidationError("cycle row failed contract validation", err).
				WithContext("row", i).
				WithContext("battery", row.Battery).
				WithContext("cycle", row.Cycle)
		}
		records = append(records, cycleRecord(columns, row))
	}

	stream, err := w.CreateStreamWriter(path, columns)
	if err != nil {
		return err
	}
	for i, record := range records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return apperrors.NewStorageError(fmt.Sprintf("failed to write cycle row %d", i), err).
				WithContext("path", path)
		}
	}
	if err := stream.Close(); err != nil {
		return apperrors.NewStorageError("failed to flush cycle table", err).
			WithContext("path", path)
	}
	return nil
}

// cycleRecord renders one paired cycle row in the given column order.
func cycleRecord(columns []string, row domain.PairedCycleRow) []string {
	record := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case "battery":
			record[i] = row.Battery
		case "cycle":
			record[i] = formatInt(row.Cycle)
		case "RUL":
			record[i] = formatInt(row.RUL)
		default:
			record[i] = formatFeature(row.Features[col])
		}
	}
	return record
}

// StreamWriter provides streaming CSV writing for large batch runs
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err).
			WithContext("dir", dir)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create file", err).
			WithContext("path", fullPath)
	}

	// Write BOM for Excel compatibility
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, apperrors.NewStorageError("failed to write BOM", err).
			WithContext("path", fullPath)
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, apperrors.NewStorageError("failed to write headers", err).
				WithContext("path", fullPath)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// resolvePath resolves a relative path into the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	if w.paths != nil {
		return w.paths.GetReportPath(filePath)
	}
	return filePath
}
