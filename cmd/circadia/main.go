package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"circadia/adapters/dataset"
	"circadia/domain/core"
	"circadia/domain/rhythm"
	"circadia/internal"
	"circadia/internal/circadian"
	"circadia/internal/config"
	"circadia/internal/location"
	"circadia/internal/testkit"
)

var logger = internal.DefaultLogger

func main() {
	// Optional .env for dataset path and analysis defaults.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "circadia",
		Short: "Circadian rhythm metrics (IS, IV, SRM) over behavioral event logs",
	}

	rootCmd.AddCommand(
		newStabilityCmd(),
		newVariabilityCmd(),
		newHoursCmd(),
		newSRMCmd(),
		newRollingCmd(),
		newClustersCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEvents reads the event log named by the flag or DATASET_PATH.
func loadEvents(file string) ([]rhythm.Event, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if file == "" {
		file = cfg.Dataset.Path
	}
	if file == "" {
		return nil, fmt.Errorf("no event file: pass --file or set DATASET_PATH")
	}

	dsCfg := dataset.DefaultConfig(file)
	dsCfg.Timezone = cfg.Dataset.Timezone

	events, err := dataset.NewReader(dsCfg).ReadEvents()
	if err != nil {
		return nil, err
	}
	logger.Info("run %s: loaded %d events from %s", core.NewID(), len(events), file)
	return events, nil
}

func newStabilityCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "stability",
		Short: "Interdaily stability (IS) per user",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(file)
			if err != nil {
				return err
			}
			rows, err := circadian.InterdailyStabilityByUser(events)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tSTABILITY")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%.4f\n", r.UserID, r.Stability)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Event log file (.csv or .xlsx)")
	return cmd
}

func newVariabilityCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "variability",
		Short: "Intradaily variability (IV) per user",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(file)
			if err != nil {
				return err
			}
			rows, err := circadian.IntradailyVariabilityByUser(events)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tVARIABILITY")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%.4f\n", r.UserID, r.Variability)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Event log file (.csv or .xlsx)")
	return cmd
}

func newHoursCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Hours ranked by mean activity (L5/M10 analysis)",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(file)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HOUR\tMEAN")
			for _, b := range circadian.SortByHourlyMeans(events) {
				fmt.Fprintf(w, "%02d:00\t%.4f\n", b.Hour, b.Mean)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Event log file (.csv or .xlsx)")
	return cmd
}

func newSRMCmd() *cobra.Command {
	var file string
	var minSamples int
	var toleranceMin int

	cmd := &cobra.Command{
		Use:   "srm",
		Short: "Social rhythm metric per user",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := loadEvents(file)
			if err != nil {
				return err
			}

			cfg := rhythm.DefaultSRMConfig()
			cfg.MinSamples = minSamples
			cfg.ToleranceHours = float64(toleranceMin) / 60.0

			rows, err := circadian.SRMByUser(events, cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tSRM")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%.3f\n", r.UserID, r.SRM)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Event log file (.csv or .xlsx)")
	cmd.Flags().IntVar(&minSamples, "min-samples", 3, "Minimum samples per qualifying target")
	cmd.Flags().IntVar(&toleranceMin, "tolerance-min", 45, "Hit window half-width in minutes")
	return cmd
}

func newRollingCmd() *cobra.Command {
	var file string
	var startStr string
	var days int
	var policyStr string
	var parallel int

	cmd := &cobra.Command{
		Use:   "rolling",
		Short: "Rolling 7-day SRM per user, stepped one day at a time",
		Long: `Slides a 7-day window one day at a time from --start, recomputing the
per-user SRM on each window's events. Consecutive windows overlap on
6 days; use --policy skip to drop windows with insufficient data
instead of aborting the run.

Example: circadia rolling --file events.csv --start 2021-01-01 --days 30 --policy skip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				return fmt.Errorf("invalid --start (use YYYY-MM-DD): %w", err)
			}
			policy, err := rhythm.ParseWindowErrorPolicy(policyStr)
			if err != nil {
				return err
			}
			events, err := loadEvents(file)
			if err != nil {
				return err
			}

			cfg := rhythm.RollingConfig{
				Start:         start,
				Days:          days,
				SRM:           rhythm.DefaultSRMConfig(),
				OnWindowError: policy,
				MaxParallel:   parallel,
			}
			rows, err := circadian.RollingSRMByUser(cmd.Context(), events, cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tUSER\tSRM")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%.3f\n", r.Date.Format("2006-01-02"), r.UserID, r.SRM)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Event log file (.csv or .xlsx)")
	cmd.Flags().StringVar(&startStr, "start", "", "First window start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 7, "How many day-stepped windows")
	cmd.Flags().StringVar(&policyStr, "policy", "abort", "Failing-window policy: abort or skip")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Concurrent window computations")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newClustersCmd() *cobra.Command {
	var file string
	var epsKm float64
	var minSamples int
	var method string

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Distinct location clusters per day from a GPS fix log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("no fix file: pass --file")
			}

			fixes, err := dataset.NewReader(dataset.DefaultConfig(file)).ReadFixes()
			if err != nil {
				return err
			}
			logger.Info("run %s: loaded %d fixes from %s", core.NewID(), len(fixes), file)

			cfg := location.ClusterConfig{
				EpsKm:          epsKm,
				MinSamples:     minSamples,
				DistanceMethod: method,
			}
			counts, err := location.DailyClusterCounts(fixes, cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCLUSTERS")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\n", c.Date.Format("2006-01-02"), c.Count)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "GPS fix file (.csv or .xlsx)")
	cmd.Flags().Float64Var(&epsKm, "eps-km", 1.0, "Neighborhood radius in km")
	cmd.Flags().IntVar(&minSamples, "min-samples", 3, "Minimum points per cluster")
	cmd.Flags().StringVar(&method, "method", location.DistanceVincenty, "Distance method: vincenty or great_circle")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var users int
	var days int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run all metrics over a synthetic population",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.DefaultRhythmConfig()
			gen.Seed = seed
			gen.UserCount = users
			gen.Days = days

			events := testkit.NewRhythmGenerator(gen).GenerateEvents()
			logger.Info("run %s: generated %d synthetic events", core.NewID(), len(events))

			stability, err := circadian.InterdailyStabilityByUser(events)
			if err != nil {
				return err
			}
			variability, err := circadian.IntradailyVariabilityByUser(events)
			if err != nil {
				return err
			}
			srm, err := circadian.SRMByUser(events, rhythm.DefaultSRMConfig())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tIS\tIV\tSRM")
			for i := range srm {
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.3f\n",
					srm[i].UserID, stability[i].Stability, variability[i].Variability, srm[i].SRM)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	cmd.Flags().IntVar(&users, "users", 3, "Synthetic user count")
	cmd.Flags().IntVar(&days, "days", 14, "Days of synthetic data")
	return cmd
}
