package frame

import (
	"github.com/montanaflynn/stats"
)

// MaskFunc inspects a whole column and returns one keep/drop flag per
// row, false marking an outlier.
type MaskFunc func(col []float64) []bool

// maxFilterPasses caps the recursive filtering loop so a mask that
// never stabilizes cannot spin forever.
const maxFilterPasses = 64

// SDMask builds a mask keeping values strictly inside
// mean +/- factor*SD. The bounds are exclusive; the SRM purge uses
// inclusive bounds and is a separate, single-pass code path.
func SDMask(factor float64) MaskFunc {
	return func(col []float64) []bool {
		mask := make([]bool, len(col))
		if len(col) < 2 {
			for i := range mask {
				mask[i] = true
			}
			return mask
		}

		mean, _ := stats.Mean(col)
		std, _ := stats.StandardDeviationSample(col)
		threshold := std * factor
		minVal, maxVal := mean-threshold, mean+threshold

		for i, v := range col {
			mask[i] = v > minVal && v < maxVal
		}
		return mask
	}
}

// FilterOutliers drops the rows the mask flags. In recursive mode the
// mask is re-applied to the surviving rows until a pass removes
// nothing, so the result is a fixed point: filtering it again returns
// it unchanged. The loop stops after maxFilterPasses regardless.
func FilterOutliers[T any](rows []T, value func(T) float64, keep MaskFunc, recursive bool) []T {
	current := rows
	for pass := 0; pass < maxFilterPasses; pass++ {
		col := make([]float64, len(current))
		for i, r := range current {
			col[i] = value(r)
		}

		mask := keep(col)
		next := make([]T, 0, len(current))
		for i, r := range current {
			if i < len(mask) && mask[i] {
				next = append(next, r)
			}
		}

		if !recursive || len(next) == len(current) {
			return next
		}
		current = next
	}
	return current
}
