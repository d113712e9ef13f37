package dataprocessing

import (
	"battcli/pkg/contracts/domain"
)

// LabelRUL sets the Remaining Useful Life of every row to the distance
// from that row's cycle to the last recorded cycle of its battery:
// max(cycle within battery) - cycle. The terminal cycle of each battery
// gets RUL 0.
//
// Grouping spans the whole table, so this must run only after the rows
// of all batteries have been concatenated.
func LabelRUL(rows []domain.PairedCycleRow) {
	maxCycle := make(map[string]int)
	for _, row := range rows {
		if row.Cycle > maxCycle[row.Battery] {
			maxCycle[row.Battery] = row.Cycle
		}
	}
	for i := range rows {
		rows[i].RUL = maxCycle[rows[i].Battery] - rows[i].Cycle
	}
}
