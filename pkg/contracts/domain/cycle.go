package domain

// CycleType labels a test segment recorded by the cycling instrument.
// Instrument files also contain other segment types (e.g. impedance
// sweeps); only charge and discharge segments contribute feature rows.
type CycleType string

const (
	CycleTypeCharge    CycleType = "charge"
	CycleTypeDischarge CycleType = "discharge"
)

// Sensor channel names as they appear inside a cycle's data block.
const (
	ChannelVoltage     = "Voltage_measured"
	ChannelCurrent     = "Current_measured"
	ChannelTemperature = "Temperature_measured"
	ChannelTime        = "Time"
	ChannelCapacity    = "Capacity"
)

// Discharge-only scalar feature names.
const (
	FeatureDischargeDuration = "discharge_duration_s"
	FeatureCapacity          = "capacity_Ah"
)

// FeatureRow maps feature name to scalar value for one charge or
// discharge cycle. Values that could not be computed are NaN.
type FeatureRow map[string]float64

// statNames is the fixed statistic suffix order used in output columns.
var statNames = []string{"avg", "min", "max"}

// channelPrefixes is the per-cycle-type channel prefix order.
var channelPrefixes = []string{"voltage", "current", "temp"}

// StatFeatureNames returns the 9 statistic feature names for a cycle
// type, in stable column order (voltage, current, temp x avg, min, max).
func StatFeatureNames(ct CycleType) []string {
	names := make([]string, 0, len(channelPrefixes)*len(statNames))
	for _, ch := range channelPrefixes {
		for _, stat := range statNames {
			names = append(names, string(ct)+"_"+ch+"_"+stat)
		}
	}
	return names
}

// FeatureColumns returns every feature column of the output table in
// stable order: the charge statistics, the discharge statistics, then
// the discharge-only scalars.
func FeatureColumns() []string {
	cols := StatFeatureNames(CycleTypeCharge)
	cols = append(cols, StatFeatureNames(CycleTypeDischarge)...)
	cols = append(cols, FeatureDischargeDuration, FeatureCapacity)
	return cols
}
