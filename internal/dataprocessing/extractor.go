package dataprocessing

import (
	"log/slog"
	"math"
	"strings"

	"battcli/internal/errors"
	"battcli/internal/matfile"
	"battcli/pkg/contracts/domain"
)

// channelSpecs maps each sensor channel field to its feature key prefix.
var channelSpecs = []struct {
	field  string
	prefix string
}{
	{field: domain.ChannelVoltage, prefix: "voltage"},
	{field: domain.ChannelCurrent, prefix: "current"},
	{field: domain.ChannelTemperature, prefix: "temp"},
}

// CycleExtractor turns one decoded instrument record into per-cycle
// feature rows, split into the charge sequence and discharge sequence
// in file order.
type CycleExtractor struct {
	logger *slog.Logger
	stats  []Stat
}

// NewCycleExtractor creates an extractor using the default statistic set.
func NewCycleExtractor(logger *slog.Logger) *CycleExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CycleExtractor{
		logger: logger,
		stats:  DefaultStats(),
	}
}

// IsInternalName reports whether a top-level variable name is reserved
// for file metadata rather than recorded data.
func IsInternalName(name string) bool {
	return strings.HasPrefix(name, "__")
}

// Extract discovers the cycle list in a decoded record and produces one
// feature row per charge or discharge cycle. Cycles of any other type
// are dropped. A record with no usable main variable or no cycle list
// returns a STRUCTURE error; the file is skipped, never the batch.
//
// Missing or empty channels degrade to NaN features, so every returned
// row carries the full 9-statistic key set (plus the two discharge-only
// scalars on discharge rows).
func (e *CycleExtractor) Extract(f *matfile.File) (charge, discharge []domain.FeatureRow, err error) {
	main, err := e.mainVariable(f)
	if err != nil {
		return nil, nil, err
	}

	cycles := main.Elements[0].Field("cycle")
	if cycles == nil || cycles.Class != matfile.ClassStruct {
		return nil, nil, errors.NewStructureError("no valid 'cycle' structure", nil).
			WithContext("variable", main.Name)
	}

	for i, cycle := range cycles.Elements {
		label := cycleLabel(cycle.Field("type"))
		ct := domain.CycleType(label)
		if ct != domain.CycleTypeCharge && ct != domain.CycleTypeDischarge {
			continue
		}

		data := cycleData(cycle)
		row := make(domain.FeatureRow, 11)
		for _, spec := range channelSpecs {
			prefix := string(ct) + "_" + spec.prefix
			for k, v := range ExtractStatsWith(e.stats, channelValues(data, spec.field), prefix) {
				row[k] = v
			}
		}

		if ct == domain.CycleTypeDischarge {
			row[domain.FeatureDischargeDuration] = lastValue(data, domain.ChannelTime)
			row[domain.FeatureCapacity] = lastValue(data, domain.ChannelCapacity)
			discharge = append(discharge, row)
		} else {
			charge = append(charge, row)
		}

		e.logger.Debug("cycle extracted",
			slog.Int("index", i),
			slog.String("type", label))
	}

	return charge, discharge, nil
}

// mainVariable locates the single non-internal top-level variable that
// holds the recorded data.
func (e *CycleExtractor) mainVariable(f *matfile.File) (*matfile.Array, error) {
	var main *matfile.Array
	count := 0
	for _, v := range f.Vars {
		if IsInternalName(v.Name) {
			continue
		}
		main = v
		count++
	}

	if count != 1 {
		return nil, errors.NewStructureError("expected exactly one top-level variable", nil).
			WithContext("variables", count)
	}
	if main.Class != matfile.ClassStruct || len(main.Elements) == 0 {
		return nil, errors.NewStructureError("top-level variable is not a struct", nil).
			WithContext("variable", main.Name)
	}
	return main, nil
}

// cycleLabel normalizes a cycle's type field. MAT char arrays carry
// trailing NULs and padding that must not defeat the exact match.
func cycleLabel(arr *matfile.Array) string {
	if arr == nil {
		return ""
	}
	return strings.TrimRight(arr.Str, "\x00 ")
}

// cycleData returns the cycle's channel block, or nil when absent.
func cycleData(cycle matfile.Struct) matfile.Struct {
	data := cycle.Field("data")
	if data == nil || len(data.Elements) == 0 {
		return nil
	}
	return data.Elements[0]
}

// channelValues returns the numeric sequence of a named channel, or nil
// when the channel is absent.
func channelValues(data matfile.Struct, field string) []float64 {
	if data == nil {
		return nil
	}
	return data.Field(field).Floats()
}

// lastValue returns the final element of a channel, or NaN when the
// channel is absent or empty. An absent field and a zero-length array
// are deliberately not distinguished.
func lastValue(data matfile.Struct, field string) float64 {
	vals := channelValues(data, field)
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}
