// Package speceval classifies recorded water-test readings against the
// configured acceptable ranges. Classification is a pure derivation: missing
// data resolves to NotTested, never to an error.
package speceval

import (
	"math"
	"sort"

	logbook "boilerlog/internal/logbook/domain"
	settings "boilerlog/internal/settings/domain"
)

// Classification is the three-valued result of checking one reading.
type Classification string

const (
	InSpec    Classification = "in-spec"
	OutOfSpec Classification = "out-of-spec"
	NotTested Classification = "not-tested"
)

// Classify checks a single reading against a single range.
//
// NotTested when the value is absent or non-numeric, or when no range is
// configured for the parameter. InSpec when Min <= value <= Max, boundaries
// inclusive. An inverted range (Min > Max) is not rejected; it classifies
// every finite value OutOfSpec.
func Classify(value *float64, rng *settings.ParameterRange) Classification {
	if value == nil || math.IsNaN(*value) || rng == nil {
		return NotTested
	}
	if *value >= rng.Min && *value <= rng.Max {
		return InSpec
	}
	return OutOfSpec
}

// OutOfSpecItem names one parameter whose recorded value fell outside its
// configured range, for alerting.
type OutOfSpecItem struct {
	Key   string                  `json:"key"`
	Value float64                 `json:"value"`
	Range settings.ParameterRange `json:"range"`
}

// EntryReport is the derived view model for one entry: a classification per
// configured parameter plus the out-of-spec roll-up the dashboard renders.
type EntryReport struct {
	Classifications map[string]Classification `json:"classifications"`
	OutOfSpecCount  int                       `json:"outOfSpecCount"`
	OutOfSpecItems  []OutOfSpecItem           `json:"outOfSpecItems"`
}

// EvaluateEntry classifies every parameter configured in params against the
// entry's sparse readings. Iteration covers configured keys only, so entries
// written under older or newer form revisions evaluate cleanly: a key the
// entry never recorded is NotTested, a recorded key the settings no longer
// configure is ignored.
func EvaluateEntry(entry *logbook.WaterTestEntry, params *settings.TestParameters) EntryReport {
	report := EntryReport{Classifications: map[string]Classification{}}
	if params == nil {
		return report
	}
	keys := make([]string, 0, len(params.Ranges))
	for key := range params.Ranges {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rng := params.RangeFor(key)
		var value *float64
		if entry != nil {
			value = entry.Reading(key)
		}
		classification := Classify(value, rng)
		report.Classifications[key] = classification
		if classification == OutOfSpec {
			report.OutOfSpecCount++
			report.OutOfSpecItems = append(report.OutOfSpecItems, OutOfSpecItem{
				Key:   key,
				Value: *value,
				Range: *rng,
			})
		}
	}
	return report
}
