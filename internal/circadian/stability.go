package circadian

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"circadia/domain/core"
	"circadia/domain/rhythm"
)

// InterdailyStability calculates IS for one event slice.
//
//	IS = N * sum_h (mean_h - mean)^2 / (24 * sum_i (x_i - mean)^2)
//
// Higher IS means stronger day-to-day rhythmicity. A constant signal
// has no defined IS: the zero-variance denominator is reported as
// ErrInsufficientData rather than producing NaN or Inf.
func InterdailyStability(events []rhythm.Event) (float64, error) {
	if len(events) == 0 {
		return 0, core.NewInsufficientDataError("interdaily stability on empty slice")
	}

	xs := values(events)
	mean := stat.Mean(xs, nil)

	devSum := sumSquaredDev(xs, mean)
	if devSum == 0 {
		return 0, fmt.Errorf("interdaily stability: %w", core.ErrZeroVariance)
	}

	var hourlyDevSum float64
	for _, hourMean := range HourlyMeans(events) {
		d := hourMean - mean
		hourlyDevSum += d * d
	}

	n := float64(len(xs))
	return n * hourlyDevSum / (hourCount * devSum), nil
}

// InterdailyStabilityByUser runs IS once per user and returns one row
// per user, ordered by user ID. A degenerate user slice fails the whole
// call; the error names the user.
func InterdailyStabilityByUser(events []rhythm.Event) ([]rhythm.StabilityRow, error) {
	groups := groupByUser(events)

	rows := make([]rhythm.StabilityRow, 0, len(groups))
	for _, userID := range sortedKeys(groups) {
		stability, err := InterdailyStability(groups[userID])
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", userID, err)
		}
		rows = append(rows, rhythm.StabilityRow{UserID: userID, Stability: stability})
	}
	return rows, nil
}
