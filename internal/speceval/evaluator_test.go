package speceval

import (
	"math"
	"testing"

	logbook "boilerlog/internal/logbook/domain"
	settings "boilerlog/internal/settings/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	rng := &settings.ParameterRange{Min: 20, Max: 50}

	cases := []struct {
		name  string
		value *float64
		rng   *settings.ParameterRange
		want  Classification
	}{
		{"within range", floatPtr(35), rng, InSpec},
		{"below range", floatPtr(19.9), rng, OutOfSpec},
		{"above range", floatPtr(50.1), rng, OutOfSpec},
		{"lower boundary inclusive", floatPtr(20), rng, InSpec},
		{"upper boundary inclusive", floatPtr(50), rng, InSpec},
		{"missing value", nil, rng, NotTested},
		{"nan value", floatPtr(math.NaN()), rng, NotTested},
		{"no range configured", floatPtr(35), nil, NotTested},
		{"inverted range rejects everything", floatPtr(35), &settings.ParameterRange{Min: 50, Max: 20}, OutOfSpec},
		{"inverted range rejects its own bounds", floatPtr(50), &settings.ParameterRange{Min: 50, Max: 20}, OutOfSpec},
		{"zero value with zero min", floatPtr(0), &settings.ParameterRange{Min: 0, Max: 5}, InSpec},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.value, tc.rng); got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	value := floatPtr(35)
	rng := &settings.ParameterRange{Min: 20, Max: 50}
	first := Classify(value, rng)
	for i := 0; i < 10; i++ {
		if got := Classify(value, rng); got != first {
			t.Fatalf("classification changed between calls: %s then %s", first, got)
		}
	}
}

func TestEvaluateEntry(t *testing.T) {
	params := &settings.TestParameters{
		Ranges: map[string]settings.ParameterRange{
			"sulphite":   {Min: 20, Max: 50},
			"alkalinity": {Min: 150, Max: 350},
			"boilerPh":   {Min: 10.5, Max: 11.5},
		},
	}
	entry := &logbook.WaterTestEntry{
		Date: "2026-08-24",
		Time: "09:30",
		Readings: map[string]float64{
			"sulphite":   35,
			"alkalinity": 400,
			// boilerPh not measured this time.
			"legacyKey": 7, // no longer configured, must be ignored
		},
	}

	report := EvaluateEntry(entry, params)

	if got := report.Classifications["sulphite"]; got != InSpec {
		t.Fatalf("sulphite = %s, want %s", got, InSpec)
	}
	if got := report.Classifications["alkalinity"]; got != OutOfSpec {
		t.Fatalf("alkalinity = %s, want %s", got, OutOfSpec)
	}
	if got := report.Classifications["boilerPh"]; got != NotTested {
		t.Fatalf("boilerPh = %s, want %s", got, NotTested)
	}
	if _, ok := report.Classifications["legacyKey"]; ok {
		t.Fatalf("unconfigured key must not be classified")
	}
	if report.OutOfSpecCount != 1 {
		t.Fatalf("OutOfSpecCount = %d, want 1", report.OutOfSpecCount)
	}
	if len(report.OutOfSpecItems) != 1 || report.OutOfSpecItems[0].Key != "alkalinity" {
		t.Fatalf("unexpected out-of-spec items: %+v", report.OutOfSpecItems)
	}
	if report.OutOfSpecItems[0].Value != 400 {
		t.Fatalf("out-of-spec value = %v, want 400", report.OutOfSpecItems[0].Value)
	}
}

func TestEvaluateEntryNilInputs(t *testing.T) {
	report := EvaluateEntry(nil, nil)
	if report.OutOfSpecCount != 0 || len(report.Classifications) != 0 {
		t.Fatalf("nil inputs must produce an empty report, got %+v", report)
	}

	params := &settings.TestParameters{
		Ranges: map[string]settings.ParameterRange{"sulphite": {Min: 20, Max: 50}},
	}
	report = EvaluateEntry(nil, params)
	if got := report.Classifications["sulphite"]; got != NotTested {
		t.Fatalf("nil entry sulphite = %s, want %s", got, NotTested)
	}
}
