package circadian

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"circadia/domain/core"
	"circadia/domain/rhythm"
)

// RollingSRMByUser slides a seven-day window one day at a time from
// cfg.Start, recomputing SRMByUser on each window's event subset. Rows
// carry the window's start date. Consecutive windows overlap on six
// days by construction; the overlap is what captures week-over-week
// drift.
//
// Window boundaries depend only on cfg.Start and the loop index, never
// on the data. Windows are computed concurrently (bounded by
// cfg.MaxParallel) but the output is always concatenated in ascending
// window-start order, with the per-window user order inside each block.
//
// A window whose aggregation fails follows cfg.OnWindowError:
// WindowAbort cancels the run, WindowSkip drops the window if the
// failure was insufficient data and aborts on anything else. A window
// with no events at all produces no rows and is not a failure.
func RollingSRMByUser(ctx context.Context, events []rhythm.Event, cfg rhythm.RollingConfig) ([]rhythm.RollingSRMRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	perWindow := make([][]rhythm.SRMRow, cfg.Days)

	g, ctx := errgroup.WithContext(ctx)
	limit := cfg.MaxParallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := 0; i < cfg.Days; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			window := rhythm.WeekWindow(cfg.Start.AddDate(0, 0, i))

			var subset []rhythm.Event
			for _, e := range events {
				if window.Contains(e.Timestamp) {
					subset = append(subset, e)
				}
			}

			rows, err := SRMByUser(subset, cfg.SRM)
			if err != nil {
				if cfg.OnWindowError == rhythm.WindowSkip && core.IsInsufficientDataError(err) {
					return nil
				}
				return fmt.Errorf("window starting %s: %w", window.Start.Format("2006-01-02"), err)
			}
			perWindow[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []rhythm.RollingSRMRow
	for i, rows := range perWindow {
		date := cfg.Start.AddDate(0, 0, i)
		for _, r := range rows {
			out = append(out, rhythm.RollingSRMRow{UserID: r.UserID, SRM: r.SRM, Date: date})
		}
	}
	return out, nil
}
