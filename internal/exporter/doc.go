// Package exporter writes the pipeline outputs: the combined per-cycle
// feature table as CSV and the per-battery summary workbook as xlsx.
// Rows are validated against the domain contract before export.
package exporter
