package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"circadia/domain/core"
	"circadia/internal/location"
)

// ReadFixes reads the file as a GPS fix log: timestamp plus latitude
// and longitude columns. Used by the location clustering tooling; the
// user and target columns are not required here.
func (r *Reader) ReadFixes() ([]location.Fix, error) {
	if r.config.Path == "" {
		return nil, core.NewConfigError("path", "must be set")
	}
	if r.config.TimeColumn == "" || r.config.LatColumn == "" || r.config.LonColumn == "" {
		return nil, core.NewConfigError("columns", "time, latitude and longitude columns must be named")
	}

	var (
		header []string
		rows   [][]string
		err    error
	)
	switch r.fileType {
	case "csv":
		header, rows, err = r.readCSV()
	default:
		header, rows, err = r.readXLSX()
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{r.config.TimeColumn, r.config.LatColumn, r.config.LonColumn} {
		if _, ok := index[name]; !ok {
			return nil, core.NewSchemaError(name, "required column missing")
		}
	}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	coord := func(row []string, column string, rowNum int) (float64, error) {
		raw := cell(row, index[column])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, core.NewSchemaError(column, fmt.Sprintf("row %d: not numeric: %q", rowNum, raw))
		}
		return v, nil
	}

	fixes := make([]location.Fix, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(cell(row, index[r.config.TimeColumn]))
		if err != nil {
			return nil, core.NewSchemaError(r.config.TimeColumn, fmt.Sprintf("row %d: %v", i+2, err))
		}
		lat, err := coord(row, r.config.LatColumn, i+2)
		if err != nil {
			return nil, err
		}
		lon, err := coord(row, r.config.LonColumn, i+2)
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, location.Fix{
			Timestamp: ts,
			Point:     location.Point{Lat: lat, Lon: lon},
		})
	}
	return fixes, nil
}
