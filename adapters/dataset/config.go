package dataset

import "circadia/domain/core"

// Config maps the columns of an event-log file onto the Event fields.
// Column names default to the historical schema so existing exports
// load without any configuration.
type Config struct {
	Path string `json:"path"`

	TimeColumn   string `json:"time_column"`
	ValueColumn  string `json:"value_column"`
	UserColumn   string `json:"user_column"`
	TargetColumn string `json:"target_column"`
	LatColumn    string `json:"lat_column"`
	LonColumn    string `json:"lon_column"`

	// Timezone, when set, converts timestamps after parsing (IANA
	// name). Empty leaves them as parsed.
	Timezone string `json:"timezone"`
}

// DefaultConfig returns the historical column names.
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		TimeColumn:   "completion_time",
		ValueColumn:  "value",
		UserColumn:   "user_id",
		TargetColumn: "target",
		LatColumn:    "latitude",
		LonColumn:    "longitude",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return core.NewConfigError("path", "must be set")
	}
	if c.TimeColumn == "" || c.UserColumn == "" || c.TargetColumn == "" {
		return core.NewConfigError("columns", "time, user and target columns must be named")
	}
	return nil
}
