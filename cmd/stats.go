package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/store"
)

const activityDays = 7

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show personal bests and recent activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			records, err := hist.Records(ctx)
			if err != nil {
				return err
			}
			now := time.Now()
			events, err := hist.Activity(ctx, history.SinceDays(now, activityDays))
			if err != nil {
				cliLog.Warn().Err(err).Msg("failed to read activity log")
			}
			printStats(cmd.OutOrStdout(), records, events, now)
			return nil
		})
	},
}

func printStats(w io.Writer, records []history.Record, events []store.SessionEvent, now time.Time) {
	o := history.Summarize(records)
	if o.Sessions == 0 {
		fmt.Fprintln(w, "No sessions yet. Run `mathdrill play` to start one.")
		return
	}

	fmt.Fprintf(w, "Sessions: %d\n", o.Sessions)
	if o.TotalAnswers > 0 {
		fmt.Fprintf(w, "Answers:  %s correct of %s (%d%%)\n",
			humanize.Comma(int64(o.TotalCorrect)),
			humanize.Comma(int64(o.TotalAnswers)),
			o.TotalCorrect*100/o.TotalAnswers)
	}
	fmt.Fprintf(w, "Best accuracy: %d%%  Longest combo: %d\n", o.MaxAccuracy, o.MaxCombo)
	if o.HasAvgTime {
		fmt.Fprintf(w, "Best average:  %.2fs\n", o.MinAvgTime)
	}

	bests := history.SortedBests(records)
	if len(bests) > 0 {
		fmt.Fprintln(w, "\nPersonal bests")
		rows := make([][]string, 0, len(bests))
		for _, r := range bests {
			rows = append(rows, []string{
				r.Type.DisplayName(),
				fmt.Sprintf("%.2fs", r.AverageSeconds()),
				fmt.Sprintf("%d%%", r.Accuracy),
				humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			})
		}
		printTable(w, []string{"Type", "Avg", "Accuracy", "When"}, rows)
	}

	if events == nil {
		return
	}
	var saved, answered int
	for _, ev := range events {
		if ev.Action == "commit" {
			saved++
			answered += ev.TotalQuestions
		}
	}
	fmt.Fprintf(w, "\nLast %d days: %d sessions saved, %d questions answered\n", activityDays, saved, answered)
}
