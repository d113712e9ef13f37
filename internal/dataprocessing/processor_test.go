package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battcli/internal/errors"
	"battcli/internal/matfile/matfiletest"
)

func writeRecord(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestBatteryName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/data/B0005.mat", want: "B0005"},
		{path: "B0018.mat", want: "B0018"},
		{path: "/data/B0005.v2.mat", want: "B0005"},
		{path: "nodot", want: "nodot"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BatteryName(tt.path))
	}
}

func TestProcessor_ProcessBattery(t *testing.T) {
	dir := t.TempDir()
	path := writeRecord(t, dir, "B0005.mat", matfiletest.File(
		matfiletest.BatteryRecord("B0005", []matfiletest.Cycle{
			chargeCycle([]float64{3.0, 4.2}),
			dischargeCycle([]float64{1.85}),
			chargeCycle([]float64{3.1, 4.2}),
			dischargeCycle([]float64{1.80}),
			// Third discharge has no charge partner and is discarded.
			dischargeCycle([]float64{1.75}),
		}),
	))

	p := NewProcessor(nil)
	report, err := p.ProcessBattery(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "B0005", report.Battery)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 1, report.Rows[0].Cycle)
	assert.Equal(t, 2, report.Rows[1].Cycle)
	assert.InDelta(t, 1.85, report.Rows[0].Features["capacity_Ah"], 1e-9)
	assert.InDelta(t, 1.80, report.Rows[1].Features["capacity_Ah"], 1e-9)
}

func TestProcessor_ProcessBattery_CompressedRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeRecord(t, dir, "B0006.mat", matfiletest.File(
		matfiletest.Compressed(matfiletest.BatteryRecord("B0006", []matfiletest.Cycle{
			chargeCycle([]float64{3.2, 4.1}),
			dischargeCycle([]float64{1.6}),
		})),
	))

	p := NewProcessor(nil)
	report, err := p.ProcessBattery(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "B0006", report.Battery)
}

func TestProcessor_ProcessBattery_StructuralSkip(t *testing.T) {
	dir := t.TempDir()
	path := writeRecord(t, dir, "B0042.mat", matfiletest.File(
		matfiletest.RecordWithoutCycles("B0042"),
	))

	p := NewProcessor(nil)
	report, err := p.ProcessBattery(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStructure))
	assert.Empty(t, report.Rows)
}

func TestProcessor_ProcessBattery_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRecord(t, dir, "junk.mat", []byte("this is not a mat file"))

	p := NewProcessor(nil)
	report, err := p.ProcessBattery(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	assert.Empty(t, report.Rows)

	_, err = p.ProcessBattery(context.Background(), filepath.Join(dir, "missing.mat"))
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestProcessor_ProcessBattery_NoPairs(t *testing.T) {
	dir := t.TempDir()
	path := writeRecord(t, dir, "B0050.mat", matfiletest.File(
		matfiletest.BatteryRecord("B0050", []matfiletest.Cycle{
			chargeCycle([]float64{3.9}),
			chargeCycle([]float64{3.8}),
		}),
	))

	p := NewProcessor(nil)
	report, err := p.ProcessBattery(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
}

func TestPipeline_Deterministic(t *testing.T) {
	dir := t.TempDir()
	record := matfiletest.File(matfiletest.BatteryRecord("B0005", []matfiletest.Cycle{
		chargeCycle([]float64{3.0, 4.2}),
		dischargeCycle([]float64{1.85}),
	}))
	path := writeRecord(t, dir, "B0005.mat", record)

	p := NewProcessor(nil)
	first, err := p.ProcessBattery(context.Background(), path)
	require.NoError(t, err)
	second, err := p.ProcessBattery(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Battery, second.Rows[i].Battery)
		assert.Equal(t, first.Rows[i].Cycle, second.Rows[i].Cycle)
		assert.Equal(t, first.Rows[i].Features, second.Rows[i].Features)
	}
}
