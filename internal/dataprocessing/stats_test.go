package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStats(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want map[string]float64
	}{
		{
			name: "simple sequence",
			data: []float64{1, 2, 3, 4},
			want: map[string]float64{
				"charge_voltage_avg": 2.5,
				"charge_voltage_min": 1,
				"charge_voltage_max": 4,
			},
		},
		{
			name: "single value",
			data: []float64{3.7},
			want: map[string]float64{
				"charge_voltage_avg": 3.7,
				"charge_voltage_min": 3.7,
				"charge_voltage_max": 3.7,
			},
		},
		{
			name: "negative currents",
			data: []float64{-2, -1.5, -2.5},
			want: map[string]float64{
				"charge_voltage_avg": -2,
				"charge_voltage_min": -2.5,
				"charge_voltage_max": -1.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractStats(tt.data, "charge_voltage")
			require.Len(t, got, 3)
			for k, v := range tt.want {
				assert.InDelta(t, v, got[k], 1e-9, k)
			}
		})
	}
}

func TestExtractStats_OrderInvariant(t *testing.T) {
	got := ExtractStats([]float64{0.5, 9.5, 3.0}, "x")
	assert.LessOrEqual(t, got["x_min"], got["x_avg"])
	assert.LessOrEqual(t, got["x_avg"], got["x_max"])
}

func TestExtractStats_Degenerate(t *testing.T) {
	for _, data := range [][]float64{nil, {}} {
		got := ExtractStats(data, "discharge_temp")
		require.Len(t, got, 3)
		for k, v := range got {
			assert.True(t, math.IsNaN(v), "%s should be NaN", k)
		}
	}
}

func TestExtractStatsWith_ExtendedRegistry(t *testing.T) {
	stats := append(DefaultStats(),
		Stat{Name: "median", Func: Median},
		Stat{Name: "std", Func: StdDev},
	)

	got := ExtractStatsWith(stats, []float64{1, 2, 3, 4, 100}, "v")
	require.Len(t, got, 5)
	assert.InDelta(t, 3.0, got["v_median"], 1e-9)
	assert.InDelta(t, 22.0, got["v_avg"], 1e-9)
	assert.Greater(t, got["v_std"], 0.0)
}

func TestMedian(t *testing.T) {
	even, err := Median([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, even, 1e-9)

	odd, err := Median([]float64{9, 1, 5})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, odd, 1e-9)

	_, err = Median(nil)
	assert.Error(t, err)
}

func TestStdDev(t *testing.T) {
	sd, err := StdDev([]float64{2, 2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sd, 1e-9)

	sd, err = StdDev([]float64{1, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sd, 1e-9)

	_, err = StdDev(nil)
	assert.Error(t, err)
}
