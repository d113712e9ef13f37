package domain

// PairedCycleRow is one row of the output table: the i-th charge cycle
// of a battery combined with its i-th discharge cycle. Cycle is the
// 1-based rank of the pairing within the battery; RUL is derived after
// all batteries are concatenated.
type PairedCycleRow struct {
	Battery  string     `json:"battery" validate:"required"`
	Cycle    int        `json:"cycle" validate:"required,min=1"`
	RUL      int        `json:"RUL" validate:"min=0"`
	Features FeatureRow `json:"features" validate:"required"`
}

// TableColumns returns the full header of the combined output table:
// battery, cycle, the feature columns, then RUL.
func TableColumns() []string {
	cols := []string{"battery", "cycle"}
	cols = append(cols, FeatureColumns()...)
	cols = append(cols, "RUL")
	return cols
}

// BatteryReport holds the paired cycle rows extracted from a single
// instrument file, before RUL labeling.
type BatteryReport struct {
	Battery string           `json:"battery" validate:"required"`
	Rows    []PairedCycleRow `json:"rows"`
}
