package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
	"github.com/Active-Apparel-Group/data-orchestration/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect audit run history",
	Long:  "Commands for listing and viewing matching runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize match and quality rates across recent runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		since, _ := cmd.Flags().GetDuration("since")
		filter := store.RunFilter{Limit: 10000}
		if since > 0 {
			filter.CreatedAfter = time.Now().Add(-since)
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatRunStats(os.Stdout, computeRunStats(runs))
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")
	runsListCmd.Flags().Int("offset", 0, "number of runs to skip")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsStatsCmd.Flags().Duration("since", 7*24*time.Hour, "time window (e.g. 24h, 168h); 0 for all runs")
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSOURCE\tSTATUS\tTHRESHOLD\tROWS\tEXACT%\tQUALITY%\tCREATED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t------\t------\t---------\t----\t------\t--------\t-------\t--------")

	for _, r := range runs {
		dur := r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String()

		source := r.Source
		if len(source) > 40 {
			source = "..." + source[len(source)-37:]
		}

		rows, exact, quality := "-", "-", "-"
		if r.Stats != nil {
			rows = fmt.Sprintf("%d", r.Stats.ResultRows)
			exact = fmt.Sprintf("%.1f", r.Stats.ExactMatchRate)
			quality = fmt.Sprintf("%.1f", r.Stats.QualityRate)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID),
			source,
			r.Status,
			r.Threshold,
			rows,
			exact,
			quality,
			r.CreatedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runStats aggregates a set of runs. Rates are averaged over completed runs
// that recorded stats.
type runStats struct {
	Total          int
	Complete       int
	Failed         int
	Running        int
	ResultRows     int
	NoMatches      int
	AvgExactRate   float64
	AvgQualityRate float64
	AvgDurSecs     float64
}

func computeRunStats(runs []model.Run) runStats {
	s := runStats{Total: len(runs)}

	var withStats int
	var totalDur time.Duration
	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			s.Complete++
			totalDur += r.UpdatedAt.Sub(r.CreatedAt)
			if r.Stats != nil {
				withStats++
				s.ResultRows += r.Stats.ResultRows
				s.NoMatches += r.Stats.NoMatches
				s.AvgExactRate += r.Stats.ExactMatchRate
				s.AvgQualityRate += r.Stats.QualityRate
			}
		case model.RunStatusFailed:
			s.Failed++
		default:
			s.Running++
		}
	}

	if withStats > 0 {
		s.AvgExactRate /= float64(withStats)
		s.AvgQualityRate /= float64(withStats)
	}
	if s.Complete > 0 {
		s.AvgDurSecs = totalDur.Seconds() / float64(s.Complete)
	}
	return s
}

func formatRunStats(out io.Writer, s runStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Runs:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Complete:\t%d\n", s.Complete)
	_, _ = fmt.Fprintf(w, "Failed:\t%d\n", s.Failed)
	_, _ = fmt.Fprintf(w, "Running:\t%d\n", s.Running)
	_, _ = fmt.Fprintf(w, "Rows matched:\t%d (%d without an order)\n", s.ResultRows, s.NoMatches)
	_, _ = fmt.Fprintf(w, "Avg exact match rate:\t%.1f%%\n", s.AvgExactRate)
	_, _ = fmt.Fprintf(w, "Avg quality rate:\t%.1f%%\n", s.AvgQualityRate)
	_, _ = fmt.Fprintf(w, "Avg duration:\t%.1fs\n", s.AvgDurSecs)
	_ = w.Flush()
}
