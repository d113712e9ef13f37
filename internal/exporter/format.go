package exporter

import (
	"math"
	"strconv"
)

// formatFeature formats a feature value for CSV output. Missing
// measurements are carried through the pipeline as NaN and rendered
// literally so downstream tooling can tell "absent" from zero.
func formatFeature(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
