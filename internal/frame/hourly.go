package frame

import (
	"sort"
	"time"
)

// HourlyCell is one (date, hour) group's aggregate values, keyed by the
// summarizer's own field names.
type HourlyCell struct {
	Date   time.Time
	Hour   int
	Values map[string]float64
}

// HourlyDistribution groups rows by calendar date and hour-of-day and
// runs the caller's summarizer over each group. Cells come back sorted
// by date then hour. The summarizer should not use "date" or "hour" as
// keys; those identify the cell itself.
func HourlyDistribution[T any](rows []T, at func(T) time.Time, agg func(group []T) map[string]float64) []HourlyCell {
	type key struct {
		year  int
		month time.Month
		day   int
		hour  int
	}

	groups := make(map[key][]T)
	for _, r := range rows {
		t := at(r)
		k := key{t.Year(), t.Month(), t.Day(), t.Hour()}
		groups[k] = append(groups[k], r)
	}

	cells := make([]HourlyCell, 0, len(groups))
	for k, group := range groups {
		cells = append(cells, HourlyCell{
			Date:   time.Date(k.year, k.month, k.day, 0, 0, 0, 0, time.UTC),
			Hour:   k.hour,
			Values: agg(group),
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if !cells[i].Date.Equal(cells[j].Date) {
			return cells[i].Date.Before(cells[j].Date)
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells
}
