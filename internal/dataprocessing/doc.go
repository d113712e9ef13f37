// Package dataprocessing converts decoded battery cycling records into
// the per-cycle feature table used for degradation and RUL modeling.
//
// # Architecture
//
// The pipeline has four stages:
//
// 1. CycleExtractor: discovers the cycle list in a decoded record and
// produces one feature row per charge/discharge cycle
// 2. ExtractStats: summary statistics (avg/min/max) per sensor channel
// 3. PairCycles: positional alignment of the charge and discharge
// sequences into combined per-cycle rows
// 4. LabelRUL: Remaining Useful Life per row, computed over the fully
// concatenated multi-battery table
//
// # Usage
//
//	proc := dataprocessing.NewProcessor(logger)
//	report, err := proc.ProcessBattery(ctx, "B0005.mat")
//	if err != nil {
//	    // STRUCTURE and PARSING errors skip the file, not the batch
//	}
//	rows = append(rows, report.Rows...)
//	...
//	dataprocessing.LabelRUL(rows)
//
// # Failure semantics
//
// Missing channels and failed statistics degrade to NaN without
// dropping the row; a missing cycle structure skips only its file.
package dataprocessing
