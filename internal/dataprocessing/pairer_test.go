package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battcli/pkg/contracts/domain"
)

func chargeRow(v float64) domain.FeatureRow {
	return domain.FeatureRow{"charge_voltage_avg": v}
}

func dischargeRow(v float64) domain.FeatureRow {
	return domain.FeatureRow{"discharge_voltage_avg": v, "capacity_Ah": v * 0.5}
}

func TestPairCycles(t *testing.T) {
	tests := []struct {
		name      string
		charge    []domain.FeatureRow
		discharge []domain.FeatureRow
		wantPairs int
	}{
		{
			name:      "equal counts",
			charge:    []domain.FeatureRow{chargeRow(1), chargeRow(2)},
			discharge: []domain.FeatureRow{dischargeRow(1), dischargeRow(2)},
			wantPairs: 2,
		},
		{
			name:      "extra discharge discarded",
			charge:    []domain.FeatureRow{chargeRow(1), chargeRow(2)},
			discharge: []domain.FeatureRow{dischargeRow(1), dischargeRow(2), dischargeRow(3)},
			wantPairs: 2,
		},
		{
			name:      "extra charge discarded",
			charge:    []domain.FeatureRow{chargeRow(1), chargeRow(2), chargeRow(3), chargeRow(4)},
			discharge: []domain.FeatureRow{dischargeRow(1)},
			wantPairs: 1,
		},
		{
			name:      "no charge rows",
			charge:    nil,
			discharge: []domain.FeatureRow{dischargeRow(1)},
			wantPairs: 0,
		},
		{
			name:      "no discharge rows",
			charge:    []domain.FeatureRow{chargeRow(1)},
			discharge: nil,
			wantPairs: 0,
		},
		{
			name:      "both empty",
			charge:    nil,
			discharge: nil,
			wantPairs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := PairCycles("B0005", tt.charge, tt.discharge)
			require.Len(t, rows, tt.wantPairs)

			for i, row := range rows {
				assert.Equal(t, "B0005", row.Battery)
				assert.Equal(t, i+1, row.Cycle, "cycle index is 1-based and gap-free")
			}
		})
	}
}

func TestPairCycles_Positional(t *testing.T) {
	// The i-th charge row pairs with the i-th discharge row, whatever
	// values they carry.
	rows := PairCycles("B7",
		[]domain.FeatureRow{chargeRow(10), chargeRow(20)},
		[]domain.FeatureRow{dischargeRow(100), dischargeRow(200)},
	)
	require.Len(t, rows, 2)

	assert.Equal(t, 10.0, rows[0].Features["charge_voltage_avg"])
	assert.Equal(t, 100.0, rows[0].Features["discharge_voltage_avg"])
	assert.Equal(t, 20.0, rows[1].Features["charge_voltage_avg"])
	assert.Equal(t, 200.0, rows[1].Features["discharge_voltage_avg"])
}

func TestPairCycles_MergesDisjointKeys(t *testing.T) {
	rows := PairCycles("B1",
		[]domain.FeatureRow{{"charge_voltage_avg": 3.9, "charge_temp_max": 30}},
		[]domain.FeatureRow{{"discharge_voltage_avg": 3.1, "capacity_Ah": 1.8}},
	)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Features, 4)
	assert.Equal(t, 1.8, rows[0].Features["capacity_Ah"])
}
