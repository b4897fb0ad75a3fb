package circadian

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"circadia/domain/core"
	"circadia/domain/rhythm"
)

// IntradailyVariability calculates IV for one event slice.
//
//	IV = N * sum_t (x_t - x_{t-1})^2 / ((N-1) * sum_i (x_i - mean)^2)
//
// The first sample has no predecessor and contributes zero to the
// numerator. Higher IV means a more fragmented day.
//
// The input must be sorted chronologically: successive differences are
// meaningless otherwise. The order is validated and violations return
// ErrUnsortedInput instead of a silently wrong score. N <= 1 and zero
// variance are reported as ErrInsufficientData.
func IntradailyVariability(events []rhythm.Event) (float64, error) {
	if len(events) <= 1 {
		return 0, core.NewInsufficientDataError("intradaily variability needs at least 2 events")
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			return 0, fmt.Errorf("intradaily variability: event %d: %w", i, core.ErrUnsortedInput)
		}
	}

	xs := values(events)
	mean := stat.Mean(xs, nil)

	devSum := sumSquaredDev(xs, mean)
	if devSum == 0 {
		return 0, fmt.Errorf("intradaily variability: %w", core.ErrZeroVariance)
	}

	var diffSum float64
	for i := 1; i < len(xs); i++ {
		d := xs[i] - xs[i-1]
		diffSum += d * d
	}

	n := float64(len(xs))
	return n * diffSum / ((n - 1) * devSum), nil
}

// IntradailyVariabilityByUser runs IV once per user and returns one row
// per user, ordered by user ID. Each user's slice must itself be
// chronologically sorted.
func IntradailyVariabilityByUser(events []rhythm.Event) ([]rhythm.VariabilityRow, error) {
	groups := groupByUser(events)

	rows := make([]rhythm.VariabilityRow, 0, len(groups))
	for _, userID := range sortedKeys(groups) {
		variability, err := IntradailyVariability(groups[userID])
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", userID, err)
		}
		rows = append(rows, rhythm.VariabilityRow{UserID: userID, Variability: variability})
	}
	return rows, nil
}
