// Package frame holds the generic tabular helpers the metrics engine
// collaborates with: timezone normalization, boundary-point slicing,
// SD-based outlier filtering and per-hour distributions. None of these
// are part of the engine's internal algorithm; they prepare and carve
// up event slices around it.
package frame

import (
	"sort"
	"time"

	"circadia/domain/core"
	"circadia/domain/rhythm"
)

// ConvertTimeZone returns a copy of events with every timestamp
// converted to the named location, optionally sorted chronologically.
// An unknown location name is a configuration error. The input slice
// is never mutated.
func ConvertTimeZone(events []rhythm.Event, locationName string, sortByTime bool) ([]rhythm.Event, error) {
	loc, err := time.LoadLocation(locationName)
	if err != nil {
		return nil, core.NewConfigError("timezone", err.Error())
	}

	out := make([]rhythm.Event, len(events))
	for i, e := range events {
		e.Timestamp = e.Timestamp.In(loc)
		out[i] = e
	}
	if sortByTime {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.Before(out[j].Timestamp)
		})
	}
	return out, nil
}

// SliceByBounds carves rows into the consecutive half-open intervals
// defined by the sorted boundary points: result[i] holds the rows r
// with bounds[i] <= at(r) < bounds[i+1]. Rows outside every interval
// are dropped. Boundary points must be ascending.
//
// Slicing a timestamp-indexed event set with bounds seven days apart
// groups rows into weeks; the rolling SRM scheduler is the specialized,
// overlapping-window form of the same operation.
func SliceByBounds[T any](rows []T, at func(T) time.Time, bounds []time.Time) ([][]T, error) {
	for i := 1; i < len(bounds); i++ {
		if bounds[i].Before(bounds[i-1]) {
			return nil, core.NewConfigError("bounds", "must be sorted ascending")
		}
	}
	if len(bounds) < 2 {
		return nil, core.NewConfigError("bounds", "need at least two boundary points")
	}

	out := make([][]T, len(bounds)-1)
	for _, r := range rows {
		t := at(r)
		for i := 0; i < len(bounds)-1; i++ {
			if !t.Before(bounds[i]) && t.Before(bounds[i+1]) {
				out[i] = append(out[i], r)
				break
			}
		}
	}
	return out, nil
}
