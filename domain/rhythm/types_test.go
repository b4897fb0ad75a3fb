package rhythm

import (
	"testing"
	"time"

	"circadia/domain/core"
)

// TestNewDecimalTime verifies hour+minute/60 conversion and that
// date and sub-minute precision are discarded.
func TestNewDecimalTime(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		expected float64
	}{
		{"morning", time.Date(2021, 3, 4, 8, 45, 0, 0, time.UTC), 8.75},
		{"midnight", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 0.0},
		{"seconds discarded", time.Date(2021, 3, 4, 8, 45, 59, 999, time.UTC), 8.75},
		{"late evening", time.Date(2021, 3, 4, 23, 59, 0, 0, time.UTC), 23.0 + 59.0/60.0},
	}

	for _, test := range tests {
		got := NewDecimalTime(test.ts).Float()
		if got != test.expected {
			t.Errorf("%s: expected %f, got %f", test.name, test.expected, got)
		}
		if got < 0 || got >= 24 {
			t.Errorf("%s: decimal time %f outside [0, 24)", test.name, got)
		}
	}
}

// TestWeekWindow verifies half-open membership over a seven-day span.
func TestWeekWindow(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	w := WeekWindow(start)

	if !w.End.Equal(start.AddDate(0, 0, 7)) {
		t.Errorf("expected end %v, got %v", start.AddDate(0, 0, 7), w.End)
	}
	if !w.Contains(start) {
		t.Error("window start should be contained")
	}
	if !w.Contains(start.AddDate(0, 0, 6)) {
		t.Error("last day should be contained")
	}
	if w.Contains(w.End) {
		t.Error("window end must be excluded (half-open)")
	}
	if w.Contains(start.Add(-time.Nanosecond)) {
		t.Error("instants before start must be excluded")
	}
}

// TestSRMConfigValidate verifies parameter validation.
func TestSRMConfigValidate(t *testing.T) {
	if err := DefaultSRMConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	bad := DefaultSRMConfig()
	bad.MinSamples = 0
	if err := bad.Validate(); !core.IsConfigError(err) {
		t.Errorf("min_samples=0: expected config error, got %v", err)
	}

	bad = DefaultSRMConfig()
	bad.ToleranceHours = 0
	if err := bad.Validate(); !core.IsConfigError(err) {
		t.Errorf("tolerance=0: expected config error, got %v", err)
	}
}

// TestParseWindowErrorPolicy verifies policy parsing round-trips.
func TestParseWindowErrorPolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected WindowErrorPolicy
		hasError bool
	}{
		{"abort", WindowAbort, false},
		{"", WindowAbort, false},
		{"skip", WindowSkip, false},
		{"retry", WindowAbort, true},
	}

	for _, test := range tests {
		got, err := ParseWindowErrorPolicy(test.input)
		if test.hasError && err == nil {
			t.Errorf("input %q: expected error", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("input %q: unexpected error %v", test.input, err)
		}
		if got != test.expected {
			t.Errorf("input %q: expected %v, got %v", test.input, test.expected, got)
		}
	}
}
