// Package dataset reads time-stamped event logs from CSV and Excel
// files into the domain event model, validating the column schema on
// the way in.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"circadia/domain/core"
	"circadia/domain/rhythm"
	"circadia/internal/frame"
)

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Reader loads event logs from a CSV or XLSX file.
type Reader struct {
	config   Config
	fileType string // "csv" or "xlsx"
}

// NewReader builds a reader for the configured path; the file type is
// taken from the extension, defaulting to xlsx.
func NewReader(config Config) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(config.Path)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{config: config, fileType: fileType}
}

// ReadEvents reads the whole file into events. A missing required
// column or an untypeable cell is a schema error naming the column and
// row; the value column is optional (events default to zero value)
// because SRM-only datasets carry no numeric signal.
func (r *Reader) ReadEvents() ([]rhythm.Event, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(r.config.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("event file not found: %s", r.config.Path)
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

	return r.eventsFromRows(header, rows)
}

func (r *Reader) readCSV() ([]string, [][]string, error) {
	f, err := os.Open(r.config.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, core.NewSchemaError(r.config.TimeColumn, "file has no header row")
	}
	return records[0], records[1:], nil
}

func (r *Reader) readXLSX() ([]string, [][]string, error) {
	f, err := excelize.OpenFile(r.config.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, core.NewSchemaError(r.config.TimeColumn, "sheet has no header row")
	}
	return rows[0], rows[1:], nil
}

// eventsFromRows maps raw cells onto events using the configured
// column names.
func (r *Reader) eventsFromRows(header []string, rows [][]string) ([]rhythm.Event, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	required := []string{r.config.TimeColumn, r.config.UserColumn, r.config.TargetColumn}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, core.NewSchemaError(name, "required column missing")
		}
	}
	valueIdx, hasValue := index[r.config.ValueColumn]

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	events := make([]rhythm.Event, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(cell(row, index[r.config.TimeColumn]))
		if err != nil {
			return nil, core.NewSchemaError(r.config.TimeColumn, fmt.Sprintf("row %d: %v", i+2, err))
		}

		e := rhythm.Event{
			Timestamp: ts,
			UserID:    cell(row, index[r.config.UserColumn]),
			Target:    cell(row, index[r.config.TargetColumn]),
		}
		if e.UserID == "" {
			return nil, core.NewSchemaError(r.config.UserColumn, fmt.Sprintf("row %d: empty user", i+2))
		}

		if hasValue {
			raw := cell(row, valueIdx)
			if raw != "" {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, core.NewSchemaError(r.config.ValueColumn, fmt.Sprintf("row %d: not numeric: %q", i+2, raw))
				}
				e.Value = v
			}
		}
		events = append(events, e)
	}

	if r.config.Timezone != "" {
		return frame.ConvertTimeZone(events, r.config.Timezone, true)
	}
	return events, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	// Excel sometimes hands back serial day numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if ts, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
