package dataprocessing

import (
	"battcli/pkg/contracts/domain"
)

// PairCycles aligns a battery's charge and discharge rows positionally:
// the i-th charge cycle in file order pairs with the i-th discharge
// cycle, regardless of any cycle number stored in the record. Trailing
// unmatched rows on either side are discarded. Cycle indices are
// 1-based, strictly increasing, without gaps.
func PairCycles(battery string, charge, discharge []domain.FeatureRow) []domain.PairedCycleRow {
	n := len(charge)
	if len(discharge) < n {
		n = len(discharge)
	}
	if n == 0 {
		return nil
	}

	rows := make([]domain.PairedCycleRow, 0, n)
	for idx := 0; idx < n; idx++ {
		features := make(domain.FeatureRow, len(charge[idx])+len(discharge[idx]))
		// Key sets are disjoint by prefix construction, so the merge
		// cannot collide.
		for k, v := range charge[idx] {
			features[k] = v
		}
		for k, v := range discharge[idx] {
			features[k] = v
		}

		rows = append(rows, domain.PairedCycleRow{
			Battery:  battery,
			Cycle:    idx + 1,
			Features: features,
		})
	}
	return rows
}
