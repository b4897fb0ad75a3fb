package circadian

import (
	"math"
	"testing"
	"time"

	"circadia/domain/core"
	"circadia/domain/rhythm"
)

const epsilon = 1e-9

// cosineEvents generates a perfectly repeating daily cosine sampled
// hourly for the given user over several days.
func cosineEvents(userID string, days int) []rhythm.Event {
	var events []rhythm.Event
	for d := 1; d <= days; d++ {
		for h := 0; h < 24; h++ {
			value := math.Cos(2 * math.Pi * float64(h) / 24)
			events = append(events, rhythm.Event{
				Timestamp: time.Date(2021, 1, d, h, 0, 0, 0, time.UTC),
				Value:     value,
				UserID:    userID,
				Target:    "activity",
			})
		}
	}
	return events
}

// TestInterdailyStabilityFlatHours verifies IS == 0 when every hour's
// mean equals the global mean even though individual values vary.
func TestInterdailyStabilityFlatHours(t *testing.T) {
	// Hour 8 mean = 2, hour 12 mean = 2, global mean = 2, variance > 0.
	events := []rhythm.Event{
		eventAt(dayHour(1, 8), 1),
		eventAt(dayHour(2, 8), 3),
		eventAt(dayHour(1, 12), 0),
		eventAt(dayHour(2, 12), 4),
	}

	is, err := InterdailyStability(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(is) > epsilon {
		t.Errorf("expected IS == 0 for flat hourly means, got %f", is)
	}
}

// TestInterdailyStabilityPerfectRhythm verifies IS == 1 for a signal
// whose days repeat exactly: every value then equals its hour mean.
func TestInterdailyStabilityPerfectRhythm(t *testing.T) {
	is, err := InterdailyStability(cosineEvents("u1", 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(is-1) > epsilon {
		t.Errorf("expected IS == 1 for perfectly repeating days, got %f", is)
	}
}

// TestInterdailyStabilityDegenerate verifies zero-variance and empty
// slices return an explicit error instead of NaN/Inf.
func TestInterdailyStabilityDegenerate(t *testing.T) {
	constant := []rhythm.Event{
		eventAt(dayHour(1, 8), 5),
		eventAt(dayHour(1, 9), 5),
		eventAt(dayHour(2, 8), 5),
	}
	if _, err := InterdailyStability(constant); !core.IsInsufficientDataError(err) {
		t.Errorf("constant signal: expected insufficient-data error, got %v", err)
	}

	single := []rhythm.Event{eventAt(dayHour(1, 8), 5)}
	if _, err := InterdailyStability(single); !core.IsInsufficientDataError(err) {
		t.Errorf("single point: expected insufficient-data error, got %v", err)
	}

	if _, err := InterdailyStability(nil); !core.IsInsufficientDataError(err) {
		t.Errorf("empty slice: expected insufficient-data error, got %v", err)
	}
}

// TestInterdailyStabilityByUser verifies one row per user, ordered by
// user ID, and that a degenerate user names itself in the error.
func TestInterdailyStabilityByUser(t *testing.T) {
	events := append(cosineEvents("zoe", 3), cosineEvents("ada", 3)...)

	rows, err := InterdailyStabilityByUser(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID != "ada" || rows[1].UserID != "zoe" {
		t.Errorf("rows not ordered by user: %+v", rows)
	}
	for _, r := range rows {
		if math.Abs(r.Stability-1) > epsilon {
			t.Errorf("user %s: expected IS 1, got %f", r.UserID, r.Stability)
		}
	}

	flat := rhythm.Event{Timestamp: dayHour(1, 8), Value: 1, UserID: "bob", Target: "activity"}
	_, err = InterdailyStabilityByUser(append(events, flat))
	if !core.IsInsufficientDataError(err) {
		t.Fatalf("expected insufficient-data error for single-point user, got %v", err)
	}
}
