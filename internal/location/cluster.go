// Package location clusters GPS fixes by geodesic distance. The
// clustering itself is plain DBSCAN over a precomputed pairwise
// distance matrix; the interesting choice is the distance method.
package location

import (
	"sort"
	"time"

	"github.com/golang/geo/s2"

	"circadia/domain/core"
)

// Point is a WGS-84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Fix is a time-stamped GPS point.
type Fix struct {
	Timestamp time.Time `json:"timestamp"`
	Point
}

// NoiseLabel marks points belonging to no cluster.
const NoiseLabel = -1

// Distance methods.
const (
	DistanceVincenty    = "vincenty"
	DistanceGreatCircle = "great_circle"
)

// ClusterConfig configures DBSCAN over geodesic distances.
type ClusterConfig struct {
	// EpsKm is the maximum distance between two points in the same
	// neighborhood, in kilometers. Default 1.0.
	EpsKm float64 `json:"eps_km"`
	// MinSamples is the minimum neighborhood size for a core point.
	// Default 3.
	MinSamples int `json:"min_samples"`
	// DistanceMethod is "vincenty" or "great_circle".
	DistanceMethod string `json:"distance_method"`
}

// DefaultClusterConfig returns the defaults matching the 1 km epsilon.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		EpsKm:          1.0,
		MinSamples:     3,
		DistanceMethod: DistanceVincenty,
	}
}

// Validate checks the configuration, including the distance method.
func (c ClusterConfig) Validate() error {
	if c.EpsKm <= 0 {
		return core.NewConfigError("eps_km", "must be > 0")
	}
	if c.MinSamples < 1 {
		return core.NewConfigError("min_samples", "must be >= 1")
	}
	switch c.DistanceMethod {
	case DistanceVincenty, DistanceGreatCircle:
		return nil
	default:
		return core.NewConfigError("distance_method", "must be vincenty or great_circle")
	}
}

const earthRadiusKm = 6371.0088

// GreatCircleKm is the spherical distance between two points in
// kilometers.
func GreatCircleKm(a, b Point) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lon)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return la.Distance(lb).Radians() * earthRadiusKm
}

// Cluster runs DBSCAN over the points using the configured geodesic
// metric and returns one cluster label per point, NoiseLabel for
// points in no cluster. Labels are assigned in first-seen order, so the
// output is deterministic for a given input order.
func Cluster(points []Point, cfg ClusterConfig) ([]int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	distance := GreatCircleKm
	if cfg.DistanceMethod == DistanceVincenty {
		distance = VincentyKm
	}

	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := distance(points[i], points[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	neighborhood := func(i int) []int {
		var ns []int
		for j := 0; j < n; j++ {
			if dist[i][j] <= cfg.EpsKm {
				ns = append(ns, j)
			}
		}
		return ns
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = NoiseLabel
	}
	visited := make([]bool, n)
	cluster := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		seeds := neighborhood(i)
		if len(seeds) < cfg.MinSamples {
			continue // noise, may still be claimed as a border point
		}

		labels[i] = cluster
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if labels[j] == NoiseLabel {
				labels[j] = cluster
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			if more := neighborhood(j); len(more) >= cfg.MinSamples {
				seeds = append(seeds, more...)
			}
		}
		cluster++
	}

	return labels, nil
}

// DayCount is the number of distinct clusters visited on one day.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// DailyClusterCounts clusters each calendar day's fixes independently
// and reports how many distinct non-noise clusters the day contains.
// Days come back sorted ascending.
func DailyClusterCounts(fixes []Fix, cfg ClusterConfig) ([]DayCount, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	byDay := make(map[time.Time][]Point)
	for _, f := range fixes {
		day := time.Date(f.Timestamp.Year(), f.Timestamp.Month(), f.Timestamp.Day(), 0, 0, 0, 0, time.UTC)
		byDay[day] = append(byDay[day], f.Point)
	}

	counts := make([]DayCount, 0, len(byDay))
	for day, points := range byDay {
		labels, err := Cluster(points, cfg)
		if err != nil {
			return nil, err
		}
		distinct := make(map[int]bool)
		for _, l := range labels {
			if l != NoiseLabel {
				distinct[l] = true
			}
		}
		counts = append(counts, DayCount{Date: day, Count: len(distinct)})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date.Before(counts[j].Date) })
	return counts, nil
}
