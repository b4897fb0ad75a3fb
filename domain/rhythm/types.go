package rhythm

import (
	"time"

	"circadia/domain/core"
)

// Event is one time-stamped behavioral observation. Value carries the
// numeric signal used by IS/IV; SRM uses only the timestamp. Target is
// the recurring-activity category the event belongs to.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	UserID    string    `json:"user_id"`
	Target    string    `json:"target"`
}

// Hour returns the hour-of-day label of the event, 0-23.
func (e Event) Hour() int {
	return e.Timestamp.Hour()
}

// DecimalTime is a time-of-day expressed as hour + minute/60, always in
// [0, 24). Date and sub-minute precision are discarded.
type DecimalTime float64

// NewDecimalTime derives the decimal time-of-day from a timestamp,
// so 08:45 becomes 8.75.
func NewDecimalTime(t time.Time) DecimalTime {
	return DecimalTime(float64(t.Hour()) + float64(t.Minute())/60)
}

// Float returns the scalar value.
func (d DecimalTime) Float() float64 { return float64(d) }

// HourlyBucket is the per-hour mean of a slice's values, one per
// distinct hour-of-day present. Ephemeral, derived.
type HourlyBucket struct {
	Hour int     `json:"hour"`
	Mean float64 `json:"mean"`
}

// Window is a half-open interval [Start, End). Rolling SRM windows are
// always seven days wide and step one day at a time, so consecutive
// windows overlap on six days.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekWindow builds the seven-day window starting at start.
func WeekWindow(start time.Time) Window {
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Result rows. One per user per invocation.
type (
	StabilityRow struct {
		UserID    string  `json:"user_id"`
		Stability float64 `json:"stability"`
	}

	VariabilityRow struct {
		UserID      string  `json:"user_id"`
		Variability float64 `json:"variability"`
	}

	SRMRow struct {
		UserID string  `json:"user_id"`
		SRM    float64 `json:"srm"`
	}

	RollingSRMRow struct {
		UserID string    `json:"user_id"`
		SRM    float64   `json:"srm"`
		Date   time.Time `json:"date"` // window start date
	}
)

// SRMConfig enumerates the SRM parameters explicitly and is passed by
// value through the aggregation -> preprocessing -> hit-counting chain.
type SRMConfig struct {
	// MinSamples is the minimum purged sample count for a target to
	// qualify. Default is 3 (40% of a week).
	MinSamples int `json:"min_samples"`
	// ToleranceHours is the half-width of the hit window around the
	// purged mean, in decimal hours. Default is 0.75 (45 minutes).
	ToleranceHours float64 `json:"tolerance_hours"`
	// PurgeFactor is the SD multiplier for the outlier purge window.
	PurgeFactor float64 `json:"purge_factor"`
	// PurgeStdFloor skips the purge entirely when the sample SD is
	// already below it.
	PurgeStdFloor float64 `json:"purge_std_floor"`
}

// DefaultSRMConfig returns the published method's parameters.
func DefaultSRMConfig() SRMConfig {
	return SRMConfig{
		MinSamples:     3,
		ToleranceHours: 45.0 / 60.0,
		PurgeFactor:    1.5,
		PurgeStdFloor:  0.5,
	}
}

// Validate checks the configuration.
func (c SRMConfig) Validate() error {
	if c.MinSamples < 1 {
		return core.NewConfigError("min_samples", "must be >= 1")
	}
	if c.ToleranceHours <= 0 {
		return core.NewConfigError("tolerance_hours", "must be > 0")
	}
	if c.PurgeFactor <= 0 {
		return core.NewConfigError("purge_factor", "must be > 0")
	}
	if c.PurgeStdFloor < 0 {
		return core.NewConfigError("purge_std_floor", "must be >= 0")
	}
	return nil
}

// WindowErrorPolicy is the batch-level choice of what a rolling run
// does with a window that fails with insufficient data. It is an
// explicit configuration, never an implicit default at call sites.
type WindowErrorPolicy int

const (
	// WindowAbort stops the whole run on the first failing window.
	WindowAbort WindowErrorPolicy = iota
	// WindowSkip drops failing windows and keeps going. Only
	// insufficient-data failures are skippable; anything else aborts.
	WindowSkip
)

// String returns the policy name.
func (p WindowErrorPolicy) String() string {
	switch p {
	case WindowAbort:
		return "abort"
	case WindowSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseWindowErrorPolicy parses a policy name.
func ParseWindowErrorPolicy(s string) (WindowErrorPolicy, error) {
	switch s {
	case "abort", "":
		return WindowAbort, nil
	case "skip":
		return WindowSkip, nil
	default:
		return WindowAbort, core.NewConfigError("window_policy", "must be abort or skip")
	}
}

// RollingConfig drives the rolling SRM scheduler.
type RollingConfig struct {
	// Start is the first window's start date.
	Start time.Time `json:"start"`
	// Days is how many day-stepped windows to compute.
	Days int `json:"days"`
	// SRM is the per-window aggregation configuration.
	SRM SRMConfig `json:"srm"`
	// OnWindowError decides skip vs abort for failing windows.
	OnWindowError WindowErrorPolicy `json:"on_window_error"`
	// MaxParallel bounds concurrent window computations. Zero or
	// negative means sequential.
	MaxParallel int `json:"max_parallel"`
}

// Validate checks the configuration.
func (c RollingConfig) Validate() error {
	if c.Start.IsZero() {
		return core.NewConfigError("start", "must be set")
	}
	if c.Days < 1 {
		return core.NewConfigError("days", "must be >= 1")
	}
	return c.SRM.Validate()
}
