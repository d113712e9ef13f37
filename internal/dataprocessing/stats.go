package dataprocessing

import (
	"fmt"
	"math"
	"sort"
)

// StatFunc computes one summary statistic over a sensor channel.
// Implementations return an error for input they cannot summarize;
// callers substitute NaN so a row never loses a column.
type StatFunc func([]float64) (float64, error)

// Stat pairs a statistic name with its function. The name becomes the
// feature key suffix: "{prefix}_{name}".
type Stat struct {
	Name string
	Func StatFunc
}

// DefaultStats returns the fixed statistic set of the output schema, in
// column order. Additional statistics (Median, StdDev) can be appended
// without changing any call site.
func DefaultStats() []Stat {
	return []Stat{
		{Name: "avg", Func: Mean},
		{Name: "min", Func: Min},
		{Name: "max", Func: Max},
	}
}

// ExtractStats computes the default statistics over data and keys each
// result as "{prefix}_{stat}". Degenerate input (empty or nil) yields
// NaN for every statistic; the full key set is always present.
func ExtractStats(data []float64, prefix string) map[string]float64 {
	return ExtractStatsWith(DefaultStats(), data, prefix)
}

// ExtractStatsWith is ExtractStats over an explicit statistic set.
func ExtractStatsWith(stats []Stat, data []float64, prefix string) map[string]float64 {
	features := make(map[string]float64, len(stats))
	for _, s := range stats {
		v, err := s.Func(data)
		if err != nil {
			v = math.NaN()
		}
		features[prefix+"_"+s.Name] = v
	}
	return features
}

// Mean returns the arithmetic mean of data.
func Mean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("mean of empty sequence")
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data)), nil
}

// Min returns the smallest value in data.
func Min(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("min of empty sequence")
	}
	min := data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// Max returns the largest value in data.
func Max(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("max of empty sequence")
	}
	max := data[0]
	for _, v := range data[1:] {
		if v > max {
			max = v
		}
	}
	return max, nil
}

// Median returns the middle value of data. Not part of the default set;
// kept in the registry for schema extensions.
func Median(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("median of empty sequence")
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, nil
	}
	return sorted[mid], nil
}

// StdDev returns the population standard deviation of data. Not part of
// the default set; kept in the registry for schema extensions.
func StdDev(data []float64) (float64, error) {
	mean, err := Mean(data)
	if err != nil {
		return 0, err
	}
	var sq float64
	for _, v := range data {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(data))), nil
}
