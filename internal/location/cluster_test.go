package location

import (
	"math"
	"testing"
	"time"

	"circadia/domain/core"
)

// Ithaca commons and a point across town, ~lat/lon in degrees.
var (
	home   = Point{Lat: 42.4440, Lon: -76.5019}
	office = Point{Lat: 42.4534, Lon: -76.4735} // ~2.5 km away
)

func jitter(p Point, dLat, dLon float64) Point {
	return Point{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
}

// TestDistanceMethodsAgree verifies vincenty and great-circle agree
// within half a percent on city-scale separations.
func TestDistanceMethodsAgree(t *testing.T) {
	v := VincentyKm(home, office)
	g := GreatCircleKm(home, office)

	if v <= 0 || g <= 0 {
		t.Fatalf("distances must be positive: vincenty=%f great_circle=%f", v, g)
	}
	if rel := math.Abs(v-g) / g; rel > 0.005 {
		t.Errorf("methods disagree by %.2f%%: vincenty=%f great_circle=%f", rel*100, v, g)
	}
	if v < 2.0 || v > 3.5 {
		t.Errorf("expected roughly 2.5 km, got %f", v)
	}
}

// TestVincentyZeroDistance verifies coincident points.
func TestVincentyZeroDistance(t *testing.T) {
	if d := VincentyKm(home, home); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

// TestCluster verifies two tight groups of fixes form two clusters and
// a faraway singleton stays noise.
func TestCluster(t *testing.T) {
	points := []Point{
		home, jitter(home, 0.0005, 0.0005), jitter(home, -0.0005, 0.0003),
		office, jitter(office, 0.0004, -0.0002), jitter(office, -0.0003, 0.0004),
		{Lat: 40.7128, Lon: -74.0060}, // New York, noise
	}

	labels, err := Cluster(points, DefaultClusterConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != len(points) {
		t.Fatalf("expected %d labels, got %d", len(points), len(labels))
	}

	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("home fixes should share a cluster: %v", labels)
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("office fixes should share a cluster: %v", labels)
	}
	if labels[0] == labels[3] {
		t.Errorf("home and office are ~2.5 km apart and must not merge: %v", labels)
	}
	if labels[6] != NoiseLabel {
		t.Errorf("the faraway singleton should be noise, got %d", labels[6])
	}
}

// TestClusterUnknownDistanceMethod verifies the configuration error.
func TestClusterUnknownDistanceMethod(t *testing.T) {
	cfg := DefaultClusterConfig()
	cfg.DistanceMethod = "ellipsoid"

	if _, err := Cluster([]Point{home}, cfg); !core.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

// TestDailyClusterCounts verifies per-day clustering and ascending
// date order.
func TestDailyClusterCounts(t *testing.T) {
	day1 := time.Date(2021, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 1, 2, 9, 0, 0, 0, time.UTC)

	var fixes []Fix
	// Day 1: home only.
	fixes = append(fixes,
		Fix{Timestamp: day1, Point: home},
		Fix{Timestamp: day1.Add(time.Hour), Point: jitter(home, 0.0004, 0)},
		Fix{Timestamp: day1.Add(2 * time.Hour), Point: jitter(home, -0.0003, 0.0002)},
	)
	// Day 2: home and office.
	fixes = append(fixes,
		Fix{Timestamp: day2, Point: home},
		Fix{Timestamp: day2.Add(time.Hour), Point: jitter(home, 0.0004, 0)},
		Fix{Timestamp: day2.Add(2 * time.Hour), Point: jitter(home, -0.0002, 0.0001)},
		Fix{Timestamp: day2.Add(8 * time.Hour), Point: office},
		Fix{Timestamp: day2.Add(9 * time.Hour), Point: jitter(office, 0.0003, 0)},
		Fix{Timestamp: day2.Add(10 * time.Hour), Point: jitter(office, -0.0002, 0.0003)},
	)

	counts, err := DailyClusterCounts(fixes, DefaultClusterConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 days, got %d", len(counts))
	}
	if !counts[0].Date.Before(counts[1].Date) {
		t.Errorf("days not sorted: %+v", counts)
	}
	if counts[0].Count != 1 {
		t.Errorf("day 1: expected 1 cluster, got %d", counts[0].Count)
	}
	if counts[1].Count != 2 {
		t.Errorf("day 2: expected 2 clusters, got %d", counts[1].Count)
	}
}
