package circadian

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"circadia/domain/core"
	"circadia/domain/rhythm"
)

// decimalSamples converts event timestamps to decimal time-of-day
// values.
func decimalSamples(events []rhythm.Event) []float64 {
	samples := make([]float64, len(events))
	for i, e := range events {
		samples[i] = rhythm.NewDecimalTime(e.Timestamp).Float()
	}
	return samples
}

// purgeOutliers is the SRM preprocessing step: a single-pass removal of
// samples outside mean +/- PurgeFactor*SD. When the sample SD is
// already below PurgeStdFloor the data is tight and the purge is
// skipped entirely. The pass is deliberately not iterated to a fixed
// point: reapplying it to its own output may remove further samples,
// and must not. (The generic recursive filter in internal/frame is a
// different tool with different semantics.)
func purgeOutliers(samples []float64, cfg rhythm.SRMConfig) []float64 {
	if len(samples) < 2 {
		return samples
	}

	mean, _ := stats.Mean(samples)
	std, _ := stats.StandardDeviationSample(samples)
	if std < cfg.PurgeStdFloor {
		return samples
	}

	lower := mean - cfg.PurgeFactor*std
	upper := mean + cfg.PurgeFactor*std

	kept := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s >= lower && s <= upper {
			kept = append(kept, s)
		}
	}
	return kept
}

// countHits recomputes the mean of the purged sample set and counts
// samples inside [mean - tolerance, mean + tolerance], bounds
// inclusive.
func countHits(samples []float64, toleranceHours float64) int {
	if len(samples) == 0 {
		return 0
	}

	mean, _ := stats.Mean(samples)
	lower := mean - toleranceHours
	upper := mean + toleranceHours

	hits := 0
	for _, s := range samples {
		if s >= lower && s <= upper {
			hits++
		}
	}
	return hits
}

// CalculateSRM computes the social rhythm metric for one user's event
// slice: per target, timestamps are converted to decimal time, outliers
// purged once, and hits counted around the purged mean; a target
// qualifies only when its purged sample count reaches MinSamples. The
// score is total hits divided by the number of qualifying targets,
// landing in [0, 7] for a week of data. Zero qualifying targets is
// reported as ErrInsufficientData, never as a NaN from a zero divide.
func CalculateSRM(events []rhythm.Event, cfg rhythm.SRMConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	groups := groupByTarget(events)

	totalHits := 0
	qualifying := 0
	for _, target := range sortedKeys(groups) {
		purged := purgeOutliers(decimalSamples(groups[target]), cfg)
		if len(purged) < cfg.MinSamples {
			continue
		}
		totalHits += countHits(purged, cfg.ToleranceHours)
		qualifying++
	}

	if qualifying == 0 {
		return 0, fmt.Errorf("srm: %w", core.ErrNoQualifyingTargets)
	}
	return float64(totalHits) / float64(qualifying), nil
}

// SRMByUser computes one SRM score per distinct user, ordered by user
// ID. A user with no qualifying target fails the whole call with that
// user named; batch callers such as the rolling scheduler decide
// whether such a failure skips the window or aborts the run.
func SRMByUser(events []rhythm.Event, cfg rhythm.SRMConfig) ([]rhythm.SRMRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	groups := groupByUser(events)

	rows := make([]rhythm.SRMRow, 0, len(groups))
	for _, userID := range sortedKeys(groups) {
		srm, err := CalculateSRM(groups[userID], cfg)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", userID, err)
		}
		rows = append(rows, rhythm.SRMRow{UserID: userID, SRM: srm})
	}
	return rows, nil
}
