// Package circadian computes circadian-rhythm stability metrics from
// time-stamped behavioral event logs: interdaily stability (IS),
// intradaily variability (IV) and the social rhythm metric (SRM),
// per user and across rolling weekly windows.
//
// The IS/IV formulas follow Witting, W., et al. "Alterations in the
// circadian rest-activity rhythm in aging and Alzheimer's disease."
// Biological Psychiatry 27.6 (1990): 563-572, formula (1), pg. 565.
package circadian

import (
	"sort"

	"github.com/montanaflynn/stats"

	"circadia/domain/rhythm"
)

// hourCount is fixed at 24: missing hours still divide the IS
// denominator.
const hourCount = 24

// HourlyMeans groups events by hour-of-day and returns the mean value
// per hour present. Hours with no events are absent from the map, not
// zero-filled.
func HourlyMeans(events []rhythm.Event) map[int]float64 {
	groups := make(map[int][]float64)
	for _, e := range events {
		groups[e.Hour()] = append(groups[e.Hour()], e.Value)
	}

	means := make(map[int]float64, len(groups))
	for hour, values := range groups {
		m, err := stats.Mean(values)
		if err != nil {
			continue // unreachable: groups are never empty
		}
		means[hour] = m
	}
	return means
}

// SortByHourlyMeans returns the hourly buckets sorted ascending by mean
// value, ties broken by hour. The head of the result feeds L5 (least
// active 5 hours) and the tail M10 (most active 10 hours) analysis.
func SortByHourlyMeans(events []rhythm.Event) []rhythm.HourlyBucket {
	means := HourlyMeans(events)

	buckets := make([]rhythm.HourlyBucket, 0, len(means))
	for hour, mean := range means {
		buckets = append(buckets, rhythm.HourlyBucket{Hour: hour, Mean: mean})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Mean != buckets[j].Mean {
			return buckets[i].Mean < buckets[j].Mean
		}
		return buckets[i].Hour < buckets[j].Hour
	})
	return buckets
}

// values extracts the numeric signal from an event slice.
func values(events []rhythm.Event) []float64 {
	xs := make([]float64, len(events))
	for i, e := range events {
		xs[i] = e.Value
	}
	return xs
}

// sumSquaredDev returns the sum of squared deviations from mean.
func sumSquaredDev(xs []float64, mean float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum
}

// groupByUser splits events per user, preserving input order inside
// each group.
func groupByUser(events []rhythm.Event) map[string][]rhythm.Event {
	groups := make(map[string][]rhythm.Event)
	for _, e := range events {
		groups[e.UserID] = append(groups[e.UserID], e)
	}
	return groups
}

// groupByTarget splits events per target, preserving input order inside
// each group.
func groupByTarget(events []rhythm.Event) map[string][]rhythm.Event {
	groups := make(map[string][]rhythm.Event)
	for _, e := range events {
		groups[e.Target] = append(groups[e.Target], e)
	}
	return groups
}

// sortedKeys returns group keys in ascending order so that per-group
// iteration, and therefore output row order, is deterministic.
func sortedKeys(groups map[string][]rhythm.Event) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
